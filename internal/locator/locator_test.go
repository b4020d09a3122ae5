package locator

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 36 {
			t.Fatalf("NewID returned %q, want 36-char UUID", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID returned duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestParseMediaOnly(t *testing.T) {
	loc, err := Parse("65317abc")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.MediaID != "65317abc" || loc.EntryType != "" || loc.EntryID != "" {
		t.Fatalf("unexpected locator %+v", loc)
	}
}

func TestParseEntryType(t *testing.T) {
	loc, err := Parse("65317:transcripts")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.EntryType != "transcripts" || loc.EntryID != "" {
		t.Fatalf("unexpected locator %+v", loc)
	}
}

func TestParseEntryID(t *testing.T) {
	loc, err := Parse("65317:transcripts:6e2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.EntryID != "6e2" {
		t.Fatalf("entry ID = %q, want 6e2", loc.EntryID)
	}
}

func TestParseLastEntrySelector(t *testing.T) {
	loc, err := Parse("65317:speech_data:-1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.EntryID != "-1" {
		t.Fatalf("entry ID = %q, want -1", loc.EntryID)
	}
}

func TestParseSubfieldSingleIndex(t *testing.T) {
	loc, err := Parse("65317:speech_data:-1.sections:0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.Subfield != "sections" {
		t.Fatalf("subfield = %q, want sections", loc.Subfield)
	}
	if loc.Range == nil || !loc.Range.Single() || loc.Range.Start != 0 {
		t.Fatalf("unexpected range %+v", loc.Range)
	}
}

func TestParseSubfieldSpan(t *testing.T) {
	loc, err := Parse("65317:speech_data:-1.nodes:2-5")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.Range == nil || loc.Range.Start != 2 || loc.Range.End != 5 {
		t.Fatalf("unexpected range %+v", loc.Range)
	}
}

func TestParseSubfieldWithoutRange(t *testing.T) {
	loc, err := Parse("65317:speech_data:-1.nodes")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if loc.Subfield != "nodes" || loc.Range != nil {
		t.Fatalf("unexpected locator %+v", loc)
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"65317",
		"65317:transcripts",
		"65317:transcripts:6e2",
		"65317:speech_data:-1.sections:0",
		"65317:speech_data:-1.nodes:0-3",
	} {
		loc, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		if got := loc.String(); got != raw {
			t.Errorf("round trip of %q produced %q", raw, got)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		":transcripts",
		"65317::6e2",
		"65317:speech_data:-1.nodes:x",
		"65317:speech_data:-1.nodes:5-2",
		"65317:speech_data:-1.nodes:-3",
		"65317:speech_data:-1.",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestNodeTruncatesIDs(t *testing.T) {
	mediaID := "0123456789abcdef"
	entryID := "fedcba9876"
	got := Node(mediaID, "speech_data", entryID, 7)
	want := "01234567:speech_data:fedcb.nodes:7"
	if got != want {
		t.Fatalf("Node = %q, want %q", got, want)
	}
	if !strings.HasPrefix(mediaID, "01234567") {
		t.Fatal("truncated media ID is not a prefix of the original")
	}
}

func TestNodeShortIDsKept(t *testing.T) {
	got := Node("abc", "transcripts", "de", 0)
	if got != "abc:transcripts:de.nodes:0" {
		t.Fatalf("Node = %q", got)
	}
}
