// Package export renders catalog records for outside consumption: markdown
// pointer files with YAML frontmatter for knowledge-base tools, and
// readable text renderings of transcripts and speech data.
package export
