package model

import "strings"

// NormalizeName case-folds a name and collapses runs of whitespace to a
// single space. Natural keys and fuzzy lookups both go through this, so
// "Carrier  A" and "carrier a" resolve identically.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// MatchesName reports whether query is contained in name after both are
// normalized. An empty query matches everything.
func MatchesName(name, query string) bool {
	return strings.Contains(NormalizeName(name), NormalizeName(query))
}
