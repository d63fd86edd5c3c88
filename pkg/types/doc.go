// Package types defines the error categories shared by the patch engine,
// its byte windows, and the configuration loader.
//
// Design goals:
//   - Typed errors with stable categories (io/range/unrecognized/...).
//   - errors.Is matches on category, so callers never compare text.
//   - Paranoid bounds checking; never panic on malformed input.
//
// This package has no dependencies beyond the standard library.
package types
