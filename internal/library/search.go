package library

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"catalog/internal/locator"
	"catalog/internal/media"
	"catalog/internal/textutil"
)

// SearchMode selects the matching strategy.
type SearchMode string

const (
	// SearchExact is case-fold-aware substring matching.
	SearchExact SearchMode = "exact"
	// SearchFuzzy scores nodes against the query with an approximate
	// string match and a configurable threshold.
	SearchFuzzy SearchMode = "fuzzy"
)

// SearchOptions tune a search pass.
type SearchOptions struct {
	Mode SearchMode
	// Threshold is the minimum fuzzy score (0-100). Zero means the
	// default of 80.
	Threshold int
	// MaxResults caps the result list. Zero means the default of 10.
	MaxResults int
	// FullSearch widens scope from the most recent entry per object to
	// every historical entry.
	FullSearch bool
}

// SearchResult pairs a matched node's text with its locator.
type SearchResult struct {
	Text    string
	Locator string
}

const (
	defaultSearchThreshold = 80
	defaultMaxResults      = 10
)

// Search scans transcript and speech-data nodes across the library. By
// default only each object's most recent entry is searched, preferring
// speech data over raw transcripts; FullSearch widens scope to every entry.
func (l *Library) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Wrap(ErrMalformed, "search", "query cannot be empty", nil)
	}
	if opts.Mode == "" {
		opts.Mode = SearchExact
	}
	if opts.Mode != SearchExact && opts.Mode != SearchFuzzy {
		return nil, Wrap(ErrMalformed, "search", fmt.Sprintf("unknown search mode %q", opts.Mode), nil)
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = defaultSearchThreshold
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	fold := cases.Fold()
	foldedQuery := fold.String(query)

	var results []SearchResult
	for _, obj := range l.objects {
		for _, entry := range searchScope(obj, opts.FullSearch) {
			texts := entry.Texts()
			for i, text := range texts {
				if !matches(opts.Mode, fold, foldedQuery, query, text, threshold) {
					continue
				}
				results = append(results, SearchResult{
					Text:    text,
					Locator: locator.Node(obj.ID, string(entry.Type()), entry.EntryID(), i),
				})
				if len(results) >= maxResults {
					return results, nil
				}
			}
		}
	}
	return results, nil
}

func searchScope(obj *media.Object, full bool) []media.Entry {
	if full {
		return obj.AllEntries()
	}
	if entry, ok := obj.LatestEntry(); ok {
		return []media.Entry{entry}
	}
	return nil
}

func matches(mode SearchMode, fold cases.Caser, foldedQuery, query, text string, threshold int) bool {
	switch mode {
	case SearchExact:
		return strings.Contains(fold.String(text), foldedQuery)
	case SearchFuzzy:
		return textutil.PartialRatio(query, text) >= threshold
	default:
		return false
	}
}
