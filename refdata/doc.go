// Package refdata provides the reference set of known drugs used to
// validate user input before any upstream work happens.
//
// It supports:
//   - Case-insensitive lookup by brand or generic name (see Set.Validate)
//   - Substring search used for "did you mean" suggestions (see Set.Search)
//   - A built-in reference set (see BuiltIn) and JSON file loading (see Load)
//
// Unknown names fail with *UnknownDrugError, which matches ErrUnknownDrug
// under errors.Is and carries suggestions when close matches exist.
package refdata
