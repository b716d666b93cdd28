package schema

import "encoding/json"

// Tier classifies a table's provenance, used by the UI for grouping precedence.
type Tier string

const (
	TierManual   Tier = "manual"
	TierLookup   Tier = "lookup"
	TierImported Tier = "imported"
	TierComputed Tier = "computed"
	TierHidden   Tier = "hidden"
	TierUnknown  Tier = "unknown"
)

// CanonicalType is the closed set of data kinds raw catalog types normalize
// into.
type CanonicalType string

const (
	TypeString   CanonicalType = "string"
	TypeInteger  CanonicalType = "integer"
	TypeFloat    CanonicalType = "float"
	TypeBoolean  CanonicalType = "boolean"
	TypeDate     CanonicalType = "date"
	TypeDatetime CanonicalType = "datetime"
	TypeEnum     CanonicalType = "enum"
	TypeBlob     CanonicalType = "blob"
)

// DefaultKind tags the DefaultValue union.
type DefaultKind string

const (
	DefaultNone          DefaultKind = "none"
	DefaultNull          DefaultKind = "null"
	DefaultLiteral       DefaultKind = "literal"
	DefaultNamedConstant DefaultKind = "constant"
)

// DefaultValue is a tagged union: no default, an explicit null, a literal
// value, or a reference to a store-computed constant such as the insertion
// timestamp. Consumers switch on Kind.
type DefaultValue struct {
	Kind     DefaultKind
	Value    any    // set only when Kind is DefaultLiteral
	Constant string // set only when Kind is DefaultNamedConstant
}

func NoDefault() DefaultValue   { return DefaultValue{Kind: DefaultNone} }
func NullDefault() DefaultValue { return DefaultValue{Kind: DefaultNull} }

func LiteralDefault(v any) DefaultValue {
	return DefaultValue{Kind: DefaultLiteral, Value: v}
}

func ConstantDefault(name string) DefaultValue {
	return DefaultValue{Kind: DefaultNamedConstant, Constant: name}
}

func (d DefaultValue) MarshalJSON() ([]byte, error) {
	out := map[string]any{"kind": d.Kind}
	switch d.Kind {
	case DefaultLiteral:
		out["value"] = d.Value
	case DefaultNamedConstant:
		out["constant"] = d.Constant
	}
	return json.Marshal(out)
}

// TableName is the identity of one table: its raw catalog name, the tier
// derived from it, and any part tables attached to it. Parts is empty for
// non-master tables. Derived fresh on every listing request, never persisted.
type TableName struct {
	RawName string      `json:"raw_name"`
	Tier    Tier        `json:"tier"`
	Parts   []TableName `json:"parts"`
}

// ConstraintType distinguishes the three key-usage classifications.
type ConstraintType string

const (
	ConstraintPrimary ConstraintType = "primary"
	ConstraintUnique  ConstraintType = "unique"
	ConstraintForeign ConstraintType = "foreign"
)

// Constraint is one key-usage record. ForeignTable and ForeignColumn are set
// only for foreign constraints; after resolution they point at the column
// backed by the owning primary key, never at an intermediate foreign key.
type Constraint struct {
	Type          ConstraintType `json:"type"`
	LocalColumn   string         `json:"local_column"`
	ForeignTable  string         `json:"foreign_table,omitempty"`
	ForeignColumn string         `json:"foreign_column,omitempty"`
}

// TableHeader is one column's metadata.
type TableHeader struct {
	Name             string        `json:"name"`
	Type             CanonicalType `json:"type"`
	RawType          string        `json:"raw_type"`
	Nullable         bool          `json:"nullable"`
	Signed           bool          `json:"signed"`
	MaxCharacters    *int64        `json:"max_characters"`
	Charset          *string       `json:"charset"`
	NumericPrecision *int64        `json:"numeric_precision"`
	NumericScale     *int64        `json:"numeric_scale"`
	EnumValues       []string      `json:"enum_values,omitempty"`
	Default          DefaultValue  `json:"default"`
	Comment          string        `json:"comment"`
	TableName        string        `json:"table_name"`
	OrdinalPosition  int           `json:"ordinal_position"`
}

// IsNumerical reports whether the column holds integer or float data.
func (h TableHeader) IsNumerical() bool {
	return h.Type == TypeInteger || h.Type == TypeFloat
}

// TableMeta is the aggregate record for one table, built fresh per request
// and immutable once returned.
type TableMeta struct {
	Name        string        `json:"name"`
	Headers     []TableHeader `json:"headers"`
	TotalRows   int64         `json:"total_rows"`
	Constraints []Constraint  `json:"constraints"`
	Comment     string        `json:"comment"`
	Parts       []TableName   `json:"parts"`
}
