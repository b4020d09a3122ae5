// Package speech converts flat transcripts into sectioned speech data.
//
// The transcript's node texts are flattened to newline-joined input for an
// external resegmentation service, which answers with an S-expression
// document of labeled sections and nested nodes. The parser walks that tree
// depth first, assigning dense document-order indices and parent links, and
// records each section's inclusive node range.
package speech
