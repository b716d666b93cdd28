package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CurrentTimestampConstant is the named constant emitted for datetime columns
// whose catalog default is the store-computed insertion timestamp.
const CurrentTimestampConstant = "CURRENT_TIMESTAMP"

var enumTypePattern = regexp.MustCompile(`^enum\((.*)\)$`)

// Classify maps a raw catalog type string to its canonical kind. The rules
// are ordered and the first match wins.
func Classify(rawType string) (CanonicalType, error) {
	raw := strings.ToLower(strings.TrimSpace(rawType))
	switch {
	case strings.Contains(raw, "tinyint(1)"):
		return TypeBoolean, nil
	case strings.Contains(raw, "int"):
		return TypeInteger, nil
	case strings.Contains(raw, "double"), strings.Contains(raw, "float"), strings.Contains(raw, "decimal"):
		return TypeFloat, nil
	case raw == "date":
		return TypeDate, nil
	case raw == "datetime", raw == "timestamp":
		return TypeDatetime, nil
	case strings.HasPrefix(raw, "enum"):
		return TypeEnum, nil
	case strings.Contains(raw, "char"):
		return TypeString, nil
	case strings.Contains(raw, "blob"):
		return TypeBlob, nil
	}
	return "", &UnrecognizedTypeError{RawType: rawType}
}

// ExtractEnumValues returns the ordered value list of an enum('a','b',...)
// column type, or nil when the raw type is not an enum. A matching type whose
// body does not decompose into comma-separated quoted literals fails with
// MalformedEnumError.
func ExtractEnumValues(rawType string) ([]string, error) {
	m := enumTypePattern.FindStringSubmatch(strings.TrimSpace(rawType))
	if m == nil {
		return nil, nil
	}

	body := m[1]
	var values []string
	i := 0
	for i < len(body) {
		if body[i] != '\'' {
			return nil, &MalformedEnumError{RawType: rawType}
		}
		i++
		var sb strings.Builder
		closed := false
		for i < len(body) {
			if body[i] == '\'' {
				// a doubled quote is an escaped literal quote
				if i+1 < len(body) && body[i+1] == '\'' {
					sb.WriteByte('\'')
					i += 2
					continue
				}
				i++
				closed = true
				break
			}
			sb.WriteByte(body[i])
			i++
		}
		if !closed {
			return nil, &MalformedEnumError{RawType: rawType}
		}
		values = append(values, sb.String())
		if i < len(body) {
			if body[i] != ',' {
				return nil, &MalformedEnumError{RawType: rawType}
			}
			i++
		}
	}
	if len(values) == 0 {
		return nil, &MalformedEnumError{RawType: rawType}
	}
	return values, nil
}

// ResolveDefault derives a column's default value from its raw catalog
// default. A nil rawDefault means the catalog records no default at all.
func ResolveDefault(rawType string, canonical CanonicalType, rawDefault *string) (DefaultValue, error) {
	if rawDefault == nil {
		return NoDefault(), nil
	}

	raw := strings.ToLower(strings.TrimSpace(rawType))
	if strings.EqualFold(*rawDefault, CurrentTimestampConstant) && (raw == "datetime" || raw == "timestamp") {
		return ConstantDefault(CurrentTimestampConstant), nil
	}

	switch canonical {
	case TypeInteger:
		n, err := strconv.ParseInt(*rawDefault, 10, 64)
		if err != nil {
			return DefaultValue{}, fmt.Errorf("integer default %q: %w", *rawDefault, err)
		}
		return LiteralDefault(n), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(*rawDefault, 64)
		if err != nil {
			return DefaultValue{}, fmt.Errorf("float default %q: %w", *rawDefault, err)
		}
		return LiteralDefault(f), nil
	case TypeBoolean:
		n, err := strconv.ParseInt(*rawDefault, 10, 64)
		if err != nil {
			return DefaultValue{}, fmt.Errorf("boolean default %q: %w", *rawDefault, err)
		}
		return LiteralDefault(n != 0), nil
	case TypeString, TypeEnum, TypeDate, TypeDatetime:
		return LiteralDefault(*rawDefault), nil
	case TypeBlob:
		// binary defaults are opaque bytes and are never surfaced
		return NullDefault(), nil
	}
	return DefaultValue{}, &UnsupportedDefaultError{Canonical: canonical}
}
