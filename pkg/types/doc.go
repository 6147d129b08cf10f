// Package types defines the small value types shared by the ndxkit packages:
// section identifiers, per-section decode configuration and typed errors with
// stable categories (io/not-found/bounds/skipped/invalid).
//
// Design goals:
//   - Tagged variants instead of runtime type inspection.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Errors that callers branch on with errors.Is rather than text.
package types
