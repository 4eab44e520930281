// Package cipher holds the fixed catalog of reversible text transforms.
// Each transform implements Transform and is selected by an ID through an
// exhaustive switch in Lookup. The catalog is read-only after init and safe
// for concurrent use; per-run state (the word replacement map) lives in
// Params and is owned by the run that created it.
package cipher
