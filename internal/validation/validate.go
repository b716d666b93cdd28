package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gridapi/internal/schema"
)

// Row is one submitted row keyed by column name.
type Row map[string]any

// FieldError names one rejected field and why it was rejected.
type FieldError struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed, so the UI can annotate
// the whole form in one round-trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		where := f.Table
		if f.Column != "" {
			where += "." + f.Column
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", where, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks raw submitted rows against the catalog headers of each
// target table and returns the prepared rows keyed by table name. The input
// may touch the master table and any of its part tables; a table outside
// that set is rejected.
func Validate(headersByTable map[string][]schema.TableHeader, raw map[string][]Row) (map[string][]Row, error) {
	var fails []FieldError
	out := make(map[string][]Row, len(raw))

	for table, rows := range raw {
		headers, ok := headersByTable[table]
		if !ok {
			fails = append(fails, FieldError{Table: table, Message: "not a valid target table for this insert"})
			continue
		}

		byName := make(map[string]schema.TableHeader, len(headers))
		for _, h := range headers {
			byName[h.Name] = h
		}

		for _, row := range rows {
			prepared := make(Row, len(row))
			for column, value := range row {
				header, ok := byName[column]
				if !ok {
					fails = append(fails, FieldError{Table: table, Column: column, Message: "unknown column"})
					continue
				}
				if msg := checkValue(header, value); msg != "" {
					fails = append(fails, FieldError{Table: table, Column: column, Message: msg})
					continue
				}
				prepared[column] = value
			}

			for _, h := range headers {
				if _, present := row[h.Name]; present {
					continue
				}
				if !h.Nullable && h.Default.Kind == schema.DefaultNone {
					fails = append(fails, FieldError{Table: table, Column: h.Name, Message: "value required"})
				}
			}

			out[table] = append(out[table], prepared)
		}
	}

	if len(fails) > 0 {
		return nil, &ValidationError{Fields: fails}
	}
	return out, nil
}

func checkValue(h schema.TableHeader, value any) string {
	if value == nil {
		if !h.Nullable {
			return "null not allowed"
		}
		return ""
	}

	switch h.Type {
	case schema.TypeInteger:
		if !isIntegral(value) {
			return fmt.Sprintf("expected an integer, got %T", value)
		}
	case schema.TypeFloat:
		if !isNumber(value) {
			return fmt.Sprintf("expected a number, got %T", value)
		}
	case schema.TypeBoolean:
		switch v := value.(type) {
		case bool:
		case float64:
			if v != 0 && v != 1 {
				return "expected a boolean"
			}
		default:
			return fmt.Sprintf("expected a boolean, got %T", value)
		}
	case schema.TypeEnum:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected an enum value, got %T", value)
		}
		for _, allowed := range h.EnumValues {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("%q is not one of the allowed values", s)
	case schema.TypeString, schema.TypeBlob:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected a string, got %T", value)
		}
		if h.MaxCharacters != nil && int64(len([]rune(s))) > *h.MaxCharacters {
			return fmt.Sprintf("longer than %d characters", *h.MaxCharacters)
		}
	case schema.TypeDate:
		if msg := checkTemporal(value, "2006-01-02"); msg != "" {
			return msg
		}
	case schema.TypeDatetime:
		if msg := checkTemporal(value, "2006-01-02 15:04:05"); msg != "" {
			return msg
		}
	}
	return ""
}

func checkTemporal(value any, layout string) string {
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("expected a %q string, got %T", layout, value)
	}
	if _, err := time.Parse(layout, s); err != nil {
		return fmt.Sprintf("%q does not match %q", s, layout)
	}
	return ""
}

func isIntegral(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		// JSON numbers arrive as float64
		return v == math.Trunc(v)
	case string:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	}
	return false
}

func isNumber(value any) bool {
	switch v := value.(type) {
	case int, int32, int64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	}
	return false
}
