// Package diagnostic collects problems found while building a registry so
// they can be reported all at once instead of one per build attempt.
//
// Key capabilities:
//   - Ambiguous (source, target) pair reports
//   - Unresolved (non-concrete) type reports
//   - Informational notes such as skipped nil transformers
//   - Folding every error diagnostic into one joined error
package diagnostic
