// Package locator generates media object identifiers and parses the compound
// locator strings used to address entries, nodes, and sections.
//
// A locator has the form:
//
//	media_id[:entry_type[:entry_id]][.subfield[:range]]
//
// where range is a single index ("3") or an inclusive pair ("0-4"). The
// grammar assumes entry IDs never contain a colon, which holds for UUIDs and
// their prefixes. Display-form locators truncate the media ID to 8 and the
// entry ID to 5 characters; prefix resolution makes the truncated forms
// round-trippable.
package locator
