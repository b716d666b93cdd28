package schema

import (
	"sort"
	"strings"
)

// Table naming grammar: a name is <tier-prefix><base>, optionally followed by
// "__<part>". The double underscore is reserved as the master/part delimiter;
// everything before the first occurrence is the owning master's full name.
// Recognized tier prefixes:
//
//	man_  manual
//	lkp_  lookup
//	imp_  imported
//	calc_ computed
//	hide_ hidden
//
// A name carrying no recognized prefix classifies as unknown.
const PartDelimiter = "__"

var tierPrefixes = []struct {
	prefix string
	tier   Tier
}{
	{"man_", TierManual},
	{"lkp_", TierLookup},
	{"imp_", TierImported},
	{"calc_", TierComputed},
	{"hide_", TierHidden},
}

var tierPrecedence = map[Tier]int{
	TierManual:   0,
	TierLookup:   1,
	TierImported: 2,
	TierComputed: 3,
	TierHidden:   4,
	TierUnknown:  5,
}

// ClassifyTier derives a table's tier from its name prefix.
func ClassifyTier(rawName string) Tier {
	for _, p := range tierPrefixes {
		if strings.HasPrefix(rawName, p.prefix) {
			return p.tier
		}
	}
	return TierUnknown
}

// MasterName returns the master portion of a part table name and whether
// rawName is a part at all.
func MasterName(rawName string) (string, bool) {
	i := strings.Index(rawName, PartDelimiter)
	if i <= 0 {
		return "", false
	}
	return rawName[:i], true
}

// GroupHierarchy partitions a flat name list into master tables, each
// carrying its part tables in input order. Masters keep the input order of
// first appearance. A part whose master is absent from the input is dropped:
// a dangling name must not break the whole listing.
func GroupHierarchy(names []string) []TableName {
	masters := make([]TableName, 0, len(names))
	index := make(map[string]int, len(names))

	for _, name := range names {
		if _, isPart := MasterName(name); isPart {
			continue
		}
		index[name] = len(masters)
		masters = append(masters, TableName{
			RawName: name,
			Tier:    ClassifyTier(name),
			Parts:   []TableName{},
		})
	}

	for _, name := range names {
		master, isPart := MasterName(name)
		if !isPart {
			continue
		}
		i, ok := index[master]
		if !ok {
			continue
		}
		masters[i].Parts = append(masters[i].Parts, TableName{
			RawName: name,
			Tier:    ClassifyTier(name),
			Parts:   []TableName{},
		})
	}

	return masters
}

// SortByTier orders grouped masters by the fixed tier precedence
// [manual, lookup, imported, computed, hidden, unknown], keeping the input
// order within a tier. A tier outside the precedence table is a logic error.
func SortByTier(masters []TableName) ([]TableName, error) {
	for _, m := range masters {
		if _, ok := tierPrecedence[m.Tier]; !ok {
			return nil, &UnknownTierOrderingError{Tier: m.Tier}
		}
	}

	sorted := make([]TableName, len(masters))
	copy(sorted, masters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return tierPrecedence[sorted[i].Tier] < tierPrecedence[sorted[j].Tier]
	})
	return sorted, nil
}
