// Package match finds near misses between enumerator names. It is used to
// point at the intended counterpart when a name has no exact match.
//
// Key functions:
//   - NormalizeIdent: folds an identifier to a comparable form
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the most similar candidate name
package match
