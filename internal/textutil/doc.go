// Package textutil provides text processing utilities for fuzzy match
// scoring and filename sanitization.
//
// The primary use cases are:
//   - Scoring approximate matches of a query against node text (0-100 scale)
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Scores are edit-distance based: Ratio compares whole strings, PartialRatio
// slides the shorter string across the longer one and keeps the best window
// score, which is what search wants when a short query targets a long
// transcript node.
package textutil
