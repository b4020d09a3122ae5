package locator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformed marks locator strings that do not follow the grammar.
var ErrMalformed = errors.New("malformed locator")

// Display truncation widths for media object and entry IDs.
const (
	MediaIDWidth = 8
	EntryIDWidth = 5
)

// NewID returns a fresh UUIDv4 string for use as an object, entry, tag, or
// group identifier.
func NewID() string {
	return uuid.NewString()
}

// Range addresses one node/section index or an inclusive span of them.
type Range struct {
	Start int
	End   int
}

// Single reports whether the range addresses exactly one index.
func (r Range) Single() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	if r.Single() {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Locator is a parsed compound address. MediaID is always present; the
// remaining fields are filled in as far as the source string specified them.
type Locator struct {
	MediaID   string
	EntryType string
	EntryID   string
	Subfield  string
	Range     *Range
}

func (l Locator) String() string {
	var b strings.Builder
	b.WriteString(l.MediaID)
	if l.EntryType != "" {
		b.WriteString(":")
		b.WriteString(l.EntryType)
	}
	if l.EntryID != "" {
		b.WriteString(":")
		b.WriteString(l.EntryID)
	}
	if l.Subfield != "" {
		b.WriteString(".")
		b.WriteString(l.Subfield)
		if l.Range != nil {
			b.WriteString(":")
			b.WriteString(l.Range.String())
		}
	}
	return b.String()
}

// Node builds a display-form locator for the node at the given index,
// truncating IDs to their display widths.
func Node(mediaID, entryType, entryID string, index int) string {
	return fmt.Sprintf("%s:%s:%s.nodes:%d",
		truncate(mediaID, MediaIDWidth), entryType, truncate(entryID, EntryIDWidth), index)
}

// Parse splits a locator string into its components. The string is split on
// the first two colons; a dot inside the third segment separates the entry ID
// from the subfield, and a colon after the subfield introduces the range.
func Parse(s string) (Locator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locator{}, fmt.Errorf("%w: empty string", ErrMalformed)
	}

	parts := strings.SplitN(s, ":", 3)
	loc := Locator{MediaID: parts[0]}
	if loc.MediaID == "" {
		return Locator{}, fmt.Errorf("%w: %q has no media ID", ErrMalformed, s)
	}

	if len(parts) > 1 {
		loc.EntryType = parts[1]
		if loc.EntryType == "" || strings.Contains(loc.EntryType, ".") {
			return Locator{}, fmt.Errorf("%w: %q has an invalid entry type segment", ErrMalformed, s)
		}
	}

	if len(parts) > 2 {
		tail := parts[2]
		entryID := tail
		if dot := strings.Index(tail, "."); dot >= 0 {
			entryID = tail[:dot]
			rest := tail[dot+1:]
			subfield := rest
			if colon := strings.Index(rest, ":"); colon >= 0 {
				subfield = rest[:colon]
				r, err := parseRange(rest[colon+1:])
				if err != nil {
					return Locator{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
				}
				loc.Range = &r
			}
			if subfield == "" {
				return Locator{}, fmt.Errorf("%w: %q has an empty subfield", ErrMalformed, s)
			}
			loc.Subfield = subfield
		}
		if entryID == "" {
			return Locator{}, fmt.Errorf("%w: %q has an empty entry ID", ErrMalformed, s)
		}
		loc.EntryID = entryID
	}

	return loc, nil
}

func parseRange(s string) (Range, error) {
	if s == "" {
		return Range{}, errors.New("empty range")
	}
	if dash := strings.Index(s, "-"); dash > 0 {
		start, err := strconv.Atoi(s[:dash])
		if err != nil {
			return Range{}, fmt.Errorf("range start %q is not an integer", s[:dash])
		}
		end, err := strconv.Atoi(s[dash+1:])
		if err != nil {
			return Range{}, fmt.Errorf("range end %q is not an integer", s[dash+1:])
		}
		if start < 0 || end < start {
			return Range{}, fmt.Errorf("range %q is not ascending", s)
		}
		return Range{Start: start, End: end}, nil
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return Range{}, fmt.Errorf("range %q is not an integer", s)
	}
	if idx < 0 {
		return Range{}, fmt.Errorf("range index %d is negative", idx)
	}
	return Range{Start: idx, End: idx}, nil
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}
