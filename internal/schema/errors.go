package schema

import "fmt"

// UnrecognizedTypeError reports a raw catalog type no classification rule
// matches. Fatal to the request: schema drift is not silently tolerated.
type UnrecognizedTypeError struct {
	RawType string
}

func (e *UnrecognizedTypeError) Error() string {
	return fmt.Sprintf("unrecognized column type %q", e.RawType)
}

// MalformedEnumError reports an enum column type whose value list could not
// be decomposed into quoted literals.
type MalformedEnumError struct {
	RawType string
}

func (e *MalformedEnumError) Error() string {
	return fmt.Sprintf("malformed enum definition %q", e.RawType)
}

// UnsupportedDefaultError reports a canonical type that default resolution
// has no rule for. Unreachable with the closed type set.
type UnsupportedDefaultError struct {
	Canonical CanonicalType
}

func (e *UnsupportedDefaultError) Error() string {
	return fmt.Sprintf("no default resolution rule for canonical type %q", e.Canonical)
}

// BrokenForeignKeyError reports a foreign-key chain that references a column
// with no constraint record, or one that never terminates at a primary key.
type BrokenForeignKeyError struct {
	Table  string
	Column string
}

func (e *BrokenForeignKeyError) Error() string {
	return fmt.Sprintf("broken foreign key: no primary key reachable through %s.%s", e.Table, e.Column)
}

// UnknownTierOrderingError reports a tier missing from the fixed precedence
// table. Always a logic error, never a catalog condition.
type UnknownTierOrderingError struct {
	Tier Tier
}

func (e *UnknownTierOrderingError) Error() string {
	return fmt.Sprintf("tier %q has no ordering precedence", e.Tier)
}
