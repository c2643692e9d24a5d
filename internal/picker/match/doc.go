// Package match scores result items against a live query string.
//
// Three matching modes are supported: fuzzy subsequence matching with
// weighted scoring, regular expressions, and exact substring matching.
// All non-regex modes use smart-case: matching is case-insensitive
// unless the query contains an uppercase character.
package match
