// Package media defines the polymorphic media object model: the closed set
// of object variants (voice, audio, video, image, screenshot, chat), their
// metadata, and the transcript/speech-data entries nested inside them.
//
// Variants are expressed as a Kind value rather than a type hierarchy; the
// CanTranscribe capability is an explicit per-kind answer. Serialization is
// an explicit field-by-field schema (struct tags), so only declared fields
// ever reach the persisted document.
//
// Entries carry ordered nodes with dense, document-order indices. Speech
// data additionally carries labeled sections spanning inclusive node index
// ranges and parent links forming an acyclic tree; Validate enforces both
// invariants on construction and on load.
package media
