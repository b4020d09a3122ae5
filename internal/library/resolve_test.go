package library

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"catalog/internal/media"
)

func TestResolveLocatorNodeRange(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addSpeechData(t, obj, "s-6666666666", "one", "two", "three", "four")

	raw := fmt.Sprintf("%s:speech_data:s-666.nodes:1-2", obj.ID[:8])
	text, err := lib.ResolveLocator(raw)
	if err != nil {
		t.Fatalf("ResolveLocator failed: %v", err)
	}
	if text != "two\nthree" {
		t.Fatalf("resolved %q", text)
	}
}

func TestResolveLocatorWholeEntry(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-7777777777", "hello", "world")

	text, err := lib.ResolveLocator(obj.ID[:8] + ":transcripts")
	if err != nil {
		t.Fatalf("ResolveLocator failed: %v", err)
	}
	if text != "hello\nworld" {
		t.Fatalf("resolved %q", text)
	}
}

func TestResolveLocatorObjectText(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "note")
	obj.Text = "free-form text"

	text, err := lib.ResolveLocator(obj.ID[:8])
	if err != nil {
		t.Fatalf("ResolveLocator failed: %v", err)
	}
	if text != "free-form text" {
		t.Fatalf("resolved %q", text)
	}
}

func TestResolveLocatorOutOfRange(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addSpeechData(t, obj, "s-8888888888", "only node")

	_, err := lib.ResolveLocator(obj.ID[:8] + ":speech_data:s-888.nodes:5")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("out-of-range returned %v, want ErrNotFound", err)
	}
}

func TestResolveLocatorMalformed(t *testing.T) {
	lib := newTestLibrary(t)
	if _, err := lib.ResolveLocator(""); !errors.Is(err, ErrMalformed) {
		t.Fatalf("empty locator returned %v, want ErrMalformed", err)
	}
}

func TestUpdateNode(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "standup")
	addTranscript(t, obj, "t-9999999999", "teh budget", "other")

	raw := fmt.Sprintf("%s:transcripts:t-999.nodes:0", obj.ID[:8])
	if err := lib.UpdateNode(raw, "the budget"); err != nil {
		t.Fatalf("UpdateNode failed: %v", err)
	}
	if obj.Transcripts[0].Nodes[0].Content != "the budget" {
		t.Fatalf("node content = %q", obj.Transcripts[0].Nodes[0].Content)
	}
	if obj.Metadata.DateModified.IsZero() {
		t.Fatal("modification date not bumped")
	}

	if err := lib.UpdateNode(obj.ID[:8], "x"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("node-less locator returned %v, want ErrMalformed", err)
	}
	rangeLoc := fmt.Sprintf("%s:transcripts:t-999.nodes:0-1", obj.ID[:8])
	if err := lib.UpdateNode(rangeLoc, "x"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("range locator returned %v, want ErrMalformed", err)
	}
}

// Exercises the full addressing path: import, transcript, resegmented
// sections, hierarchical tagging, search, and last-entry selection.
func TestEndToEndScenario(t *testing.T) {
	lib := newTestLibrary(t)
	source := writeSource(t, "meeting.mp3", "meeting audio bytes")

	obj, imported, err := lib.Import(source, ImportOptions{Auto: true})
	if err != nil || !imported {
		t.Fatalf("import: %v imported=%v", err, imported)
	}

	addTranscript(t, obj, "t-e2e1111111",
		"welcome everyone", "agenda first", "project update", "shipping soon", "demo went well",
		"now finances", "the budget is tight", "cuts needed", "revisit next quarter", "meeting closed")

	sd := media.SpeechData{
		ID:               "s-e2e2222222",
		SourceTranscript: "t-e2e1111111",
		Sections: []media.Section{
			{Label: "Project Update", Indeces: [2]int{0, 4}},
			{Label: "Finances", Indeces: [2]int{5, 9}},
		},
	}
	for i, text := range []string{
		"welcome everyone", "agenda first", "project update", "shipping soon", "demo went well",
		"now finances", "the budget is tight", "cuts needed", "revisit next quarter", "meeting closed",
	} {
		sd.Nodes = append(sd.Nodes, media.SpeechNode{Index: i, Text: text})
	}
	obj.SpeechData = append(obj.SpeechData, sd)

	leaf, err := lib.EnsureTagPath("work/meetings", "test")
	if err != nil {
		t.Fatalf("EnsureTagPath failed: %v", err)
	}
	if err := lib.TagObject(obj, leaf.ID, "test"); err != nil {
		t.Fatalf("TagObject failed: %v", err)
	}
	if _, err := lib.ResolveTag("work"); err != nil {
		t.Fatal("parent tag was not auto-created")
	}

	results, err := lib.Search("budget", SearchOptions{Mode: SearchExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Locator, ":speech_data:") {
		t.Fatalf("locator %q does not point at speech data", results[0].Locator)
	}

	// The hit lands inside the second section.
	entry, err := obj.ResolveSpeechData("-1")
	if err != nil {
		t.Fatalf("ResolveSpeechData failed: %v", err)
	}
	if entry.ID != "s-e2e2222222" {
		t.Fatalf("last entry = %s", entry.ID)
	}
	section, ok := entry.SectionFor(6)
	if !ok || section.Label != "Finances" {
		t.Fatalf("node 6 resolves to section %+v", section)
	}

	text, err := lib.ResolveLocator(results[0].Locator)
	if err != nil {
		t.Fatalf("ResolveLocator failed: %v", err)
	}
	if text != "the budget is tight" {
		t.Fatalf("resolved %q", text)
	}
}
