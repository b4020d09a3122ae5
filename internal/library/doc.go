// Package library implements the catalog's aggregate store: media objects,
// the tag forest, and the group hierarchy, persisted as a single JSON
// document.
//
// All mutation happens in memory; Save serializes the whole aggregate back
// to one file under an advisory file lock, replacing it atomically via a
// temp file and rename. The library is the unit of consistency.
//
// Lookup errors follow a small taxonomy of sentinels (ErrNotFound,
// ErrAmbiguous, ErrDuplicate, ErrMalformed, ErrExternal) so callers can
// classify failures with errors.Is and keep processing remaining items in
// a batch.
package library
