package media

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func sampleSpeechData(id string) SpeechData {
	return SpeechData{
		ID:               id,
		DateStored:       time.Now().UTC(),
		SourceTranscript: "src",
		Sections: []Section{
			{Label: "Intro", Indeces: [2]int{0, 1}},
			{Label: "Body", Indeces: [2]int{2, 3}},
		},
		Nodes: []SpeechNode{
			{Index: 0, Text: "hello"},
			{Index: 1, Parent: intPtr(0), Text: "world"},
			{Index: 2, Text: "second"},
			{Index: 3, Parent: intPtr(2), Text: "section"},
		},
	}
}

func TestSpeechDataValidate(t *testing.T) {
	sd := sampleSpeechData("sd1")
	if err := sd.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestSpeechDataValidateRejectsSparseIndices(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sd.Nodes[2].Index = 5
	if err := sd.Validate(); err == nil {
		t.Fatal("Validate accepted sparse node indices")
	}
}

func TestSpeechDataValidateRejectsForwardParent(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sd.Nodes[1].Parent = intPtr(3)
	if err := sd.Validate(); err == nil {
		t.Fatal("Validate accepted a forward parent reference")
	}
}

func TestSpeechDataValidateRejectsSelfParent(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sd.Nodes[1].Parent = intPtr(1)
	if err := sd.Validate(); err == nil {
		t.Fatal("Validate accepted a self-referencing parent")
	}
}

func TestSpeechDataValidateRejectsOverlappingSections(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sd.Sections[1].Indeces = [2]int{1, 3}
	if err := sd.Validate(); err == nil {
		t.Fatal("Validate accepted overlapping sections")
	}
}

func TestSpeechDataValidateRejectsOutOfRangeSection(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sd.Sections[1].Indeces = [2]int{2, 9}
	if err := sd.Validate(); err == nil {
		t.Fatal("Validate accepted an out-of-range section")
	}
}

func TestSpeechDataDepth(t *testing.T) {
	sd := sampleSpeechData("sd1")
	if d := sd.Depth(0); d != 0 {
		t.Errorf("Depth(0) = %d, want 0", d)
	}
	if d := sd.Depth(1); d != 1 {
		t.Errorf("Depth(1) = %d, want 1", d)
	}
}

func TestSectionFor(t *testing.T) {
	sd := sampleSpeechData("sd1")
	sec, ok := sd.SectionFor(3)
	if !ok || sec.Label != "Body" {
		t.Fatalf("SectionFor(3) = %+v, %v", sec, ok)
	}
	if _, ok := sd.SectionFor(9); ok {
		t.Fatal("SectionFor(9) found a section for a missing node")
	}
}

func TestAddTagRejectsDuplicate(t *testing.T) {
	tr := Transcript{ID: "t1"}
	ta := TagAssignment{TagID: "tag-a", DateAssigned: time.Now().UTC(), Source: "user"}
	if err := tr.AddTag(ta); err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if err := tr.AddTag(ta); !errors.Is(err, ErrDuplicateAssignment) {
		t.Fatalf("second AddTag = %v, want ErrDuplicateAssignment", err)
	}
}

func TestRemoveTag(t *testing.T) {
	tr := Transcript{ID: "t1", Tags: []TagAssignment{{TagID: "tag-a"}}}
	if err := tr.RemoveTag("tag-a"); err != nil {
		t.Fatalf("RemoveTag failed: %v", err)
	}
	if err := tr.RemoveTag("tag-a"); !errors.Is(err, ErrAssignmentNotPresent) {
		t.Fatalf("second RemoveTag = %v, want ErrAssignmentNotPresent", err)
	}
}

func TestResolveEntrySelectors(t *testing.T) {
	obj := New(KindVoice)
	obj.Transcripts = []Transcript{
		{ID: "aaaa1111"},
		{ID: "bbbb2222"},
		{ID: "cccc3333"},
	}

	last, err := obj.ResolveTranscript("-1")
	if err != nil || last.ID != "cccc3333" {
		t.Fatalf("ResolveTranscript(-1) = %v, %v", last, err)
	}

	byIndex, err := obj.ResolveTranscript("1")
	if err != nil || byIndex.ID != "bbbb2222" {
		t.Fatalf("ResolveTranscript(1) = %v, %v", byIndex, err)
	}

	byPrefix, err := obj.ResolveTranscript("aaa")
	if err != nil || byPrefix.ID != "aaaa1111" {
		t.Fatalf("ResolveTranscript(aaa) = %v, %v", byPrefix, err)
	}

	if _, err := obj.ResolveTranscript("7"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("out-of-range index = %v, want ErrEntryNotFound", err)
	}
	if _, err := obj.ResolveTranscript("zzz"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("unmatched prefix = %v, want ErrEntryNotFound", err)
	}
}

func TestResolveEntryEmptyList(t *testing.T) {
	obj := New(KindVoice)
	if _, err := obj.ResolveSpeechData("-1"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ResolveSpeechData on empty list = %v, want ErrEntryNotFound", err)
	}
}

func TestLatestEntryPrefersSpeechData(t *testing.T) {
	obj := New(KindVoice)
	obj.Transcripts = []Transcript{{ID: "t1"}}
	entry, ok := obj.LatestEntry()
	if !ok || entry.Type() != EntryTranscripts {
		t.Fatalf("LatestEntry = %v, %v, want transcript fallback", entry, ok)
	}

	obj.SpeechData = []SpeechData{{ID: "sd1"}, {ID: "sd2"}}
	entry, ok = obj.LatestEntry()
	if !ok || entry.Type() != EntrySpeechData || entry.EntryID() != "sd2" {
		t.Fatalf("LatestEntry = %v, %v, want latest speech data", entry, ok)
	}
}

func TestRemoveEntry(t *testing.T) {
	obj := New(KindVoice)
	obj.Transcripts = []Transcript{{ID: "t1"}, {ID: "t2"}}
	if err := obj.RemoveEntry(EntryTranscripts, "t1"); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if len(obj.Transcripts) != 1 || obj.Transcripts[0].ID != "t2" {
		t.Fatalf("unexpected transcripts after removal: %+v", obj.Transcripts)
	}
	if err := obj.RemoveEntry(EntryTranscripts, "t1"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("second RemoveEntry = %v, want ErrEntryNotFound", err)
	}
}
