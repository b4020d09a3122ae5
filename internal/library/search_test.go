package library

import (
	"errors"
	"strings"
	"testing"

	"catalog/internal/media"
)

func addTranscript(t *testing.T, obj *media.Object, id string, contents ...string) *media.Transcript {
	t.Helper()
	tr := media.Transcript{ID: id}
	for i, content := range contents {
		tr.Nodes = append(tr.Nodes, media.TranscriptNode{Index: i, Content: content})
	}
	obj.Transcripts = append(obj.Transcripts, tr)
	return &obj.Transcripts[len(obj.Transcripts)-1]
}

func addSpeechData(t *testing.T, obj *media.Object, id string, texts ...string) *media.SpeechData {
	t.Helper()
	sd := media.SpeechData{ID: id}
	for i, text := range texts {
		sd.Nodes = append(sd.Nodes, media.SpeechNode{Index: i, Text: text})
	}
	obj.SpeechData = append(obj.SpeechData, sd)
	return &obj.SpeechData[len(obj.SpeechData)-1]
}

func TestSearchExactCaseFolded(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-1111111111", "we reviewed the Budget today", "nothing else")

	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Text, "Budget") {
		t.Fatalf("matched text = %q", results[0].Text)
	}
}

func TestSearchDefaultScopeIsLatestEntry(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-2222222222", "budget discussion in the old transcript")
	addSpeechData(t, obj, "s-2222222222", "no money talk here")

	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("default scope leaked into older entries: %v", results)
	}

	results, err = lib.Search("budget", SearchOptions{Mode: SearchExact, FullSearch: true})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("full search got %d results, want 1", len(results))
	}
}

func TestSearchFuzzyThreshold(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-3333333333", "we talked about the budgit")

	// Exact match misses the typo, fuzzy finds it.
	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatal("exact search matched a typo")
	}

	results, err = lib.Search("budget", SearchOptions{Mode: SearchFuzzy})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("fuzzy search got %d results, want 1", len(results))
	}

	results, err = lib.Search("budget", SearchOptions{Mode: SearchFuzzy, Threshold: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatal("threshold 100 still matched a typo")
	}
}

func TestSearchCapsResults(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-4444444444",
		"budget one", "budget two", "budget three", "budget four")

	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact, MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want cap of 2", len(results))
	}
}

func TestSearchLocatorRoundTrip(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addSpeechData(t, obj, "s-5555555555", "intro", "the budget is tight", "outro")

	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	text, err := lib.ResolveLocator(results[0].Locator)
	if err != nil {
		t.Fatalf("ResolveLocator failed on %q: %v", results[0].Locator, err)
	}
	if text != results[0].Text {
		t.Fatalf("round trip: resolved %q, matched %q", text, results[0].Text)
	}
}

func TestSearchRejectsUnknownMode(t *testing.T) {
	lib := newTestLibrary(t)
	if _, err := lib.Search("x", SearchOptions{Mode: "semantic"}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("unknown mode returned %v, want ErrMalformed", err)
	}
}
