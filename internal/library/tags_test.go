package library

import (
	"errors"
	"strings"
	"testing"

	"catalog/internal/media"
)

func TestCreateTagNameGloballyUnique(t *testing.T) {
	lib := newTestLibrary(t)
	work, err := lib.CreateTag("work", "", "")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	personal, err := lib.CreateTag("personal", "", "")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	if _, err := lib.CreateTag("Work", "", ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("case-variant duplicate returned %v, want ErrDuplicate", err)
	}
	// Uniqueness holds even under a different parent.
	if _, err := lib.CreateTag("work", personal.ID, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate under other parent returned %v, want ErrDuplicate", err)
	}
	_ = work
}

func TestResolveTagByIDPrefixAndName(t *testing.T) {
	lib := newTestLibrary(t)
	work, _ := lib.CreateTag("work", "", "")
	meetings, _ := lib.CreateTag("meetings", work.ID, "")

	got, err := lib.ResolveTag(meetings.ID)
	if err != nil || got.ID != meetings.ID {
		t.Fatalf("exact ID resolution failed: %v", err)
	}

	got, err = lib.ResolveTag(meetings.ID[:5])
	if err != nil || got.ID != meetings.ID {
		t.Fatalf("prefix resolution failed: %v", err)
	}

	got, err = lib.ResolveTag("meetings")
	if err != nil || got.ID != meetings.ID {
		t.Fatalf("leaf name resolution failed: %v", err)
	}

	got, err = lib.ResolveTag("work/meetings")
	if err != nil || got.ID != meetings.ID {
		t.Fatalf("qualified name resolution failed: %v", err)
	}

	if _, err := lib.ResolveTag("nosuchtag"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("miss returned %v, want ErrNotFound", err)
	}
}

func TestResolveTagShortPrefixIgnored(t *testing.T) {
	lib := newTestLibrary(t)
	tag, _ := lib.CreateTag("work", "", "")
	// Prefixes shorter than five characters fall through to name matching.
	if _, err := lib.ResolveTag(tag.ID[:4]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("short prefix returned %v, want ErrNotFound", err)
	}
}

func TestTagNameQualifiedPath(t *testing.T) {
	lib := newTestLibrary(t)
	work, _ := lib.CreateTag("work", "", "")
	meetings, _ := lib.CreateTag("meetings", work.ID, "")
	standup, _ := lib.CreateTag("standup", meetings.ID, "")

	full, err := lib.TagName(standup.ID, true)
	if err != nil {
		t.Fatalf("TagName failed: %v", err)
	}
	if full != "work/meetings/standup" {
		t.Fatalf("qualified path = %q", full)
	}

	leaf, err := lib.TagName(standup.ID, false)
	if err != nil || leaf != "standup" {
		t.Fatalf("leaf name = %q, err %v", leaf, err)
	}
}

func TestTagNameUsesFirstParentOnly(t *testing.T) {
	lib := newTestLibrary(t)
	work, _ := lib.CreateTag("work", "", "")
	archive, _ := lib.CreateTag("archive", "", "")
	meetings, _ := lib.CreateTag("meetings", work.ID, "")
	if err := lib.AddParentTag(meetings.ID, archive.ID); err != nil {
		t.Fatalf("AddParentTag failed: %v", err)
	}

	full, err := lib.TagName(meetings.ID, true)
	if err != nil {
		t.Fatalf("TagName failed: %v", err)
	}
	if full != "work/meetings" {
		t.Fatalf("qualified path = %q, want first-parent chain", full)
	}
}

func TestEnsureTagPathAutoCreates(t *testing.T) {
	lib := newTestLibrary(t)
	leaf, err := lib.EnsureTagPath("work/meetings", "test")
	if err != nil {
		t.Fatalf("EnsureTagPath failed: %v", err)
	}
	if leaf.Name != "meetings" {
		t.Fatalf("leaf = %q", leaf.Name)
	}
	full, err := lib.TagName(leaf.ID, true)
	if err != nil || full != "work/meetings" {
		t.Fatalf("qualified path = %q, err %v", full, err)
	}
	if len(lib.Tags()) != 2 {
		t.Fatalf("created %d tags, want 2", len(lib.Tags()))
	}

	// A second pass reuses both segments.
	again, err := lib.EnsureTagPath("work/meetings", "test")
	if err != nil {
		t.Fatalf("EnsureTagPath second pass failed: %v", err)
	}
	if again.ID != leaf.ID || len(lib.Tags()) != 2 {
		t.Fatal("EnsureTagPath duplicated an existing segment")
	}
}

func TestTagAssignmentLifecycle(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "a")
	obj.Transcripts = append(obj.Transcripts, media.Transcript{
		ID:    "t-aaaaaaaaaa",
		Nodes: []media.TranscriptNode{{Index: 0, Content: "hi"}},
	})
	tag, _ := lib.CreateTag("work", "", "")

	if err := lib.TagObject(obj, tag.ID, "cli"); err != nil {
		t.Fatalf("TagObject failed: %v", err)
	}
	if err := lib.TagObject(obj, tag.ID, "cli"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("repeat TagObject returned %v, want ErrDuplicate", err)
	}

	entry, err := obj.ResolveEntry(media.EntryTranscripts, "-1")
	if err != nil {
		t.Fatalf("ResolveEntry failed: %v", err)
	}
	if err := lib.TagEntry(entry, tag.ID, "cli"); err != nil {
		t.Fatalf("TagEntry failed: %v", err)
	}

	group, _ := lib.CreateGroup("g", "", "")
	if err := lib.TagGroup(group, tag.ID, "cli"); err != nil {
		t.Fatalf("TagGroup failed: %v", err)
	}
	if err := lib.TagGroup(group, tag.ID, "cli"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("repeat TagGroup returned %v, want ErrDuplicate", err)
	}

	count, err := lib.CountTagAssignments(tag.ID)
	if err != nil {
		t.Fatalf("CountTagAssignments failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	if err := lib.UntagObject(obj, tag.ID); err != nil {
		t.Fatalf("UntagObject failed: %v", err)
	}
	if err := lib.UntagObject(obj, tag.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat UntagObject returned %v, want ErrNotFound", err)
	}
}

func TestDeleteTagCascades(t *testing.T) {
	lib := newTestLibrary(t)
	obj := addVoiceObject(t, lib, "a")
	obj.Transcripts = append(obj.Transcripts, media.Transcript{
		ID:    "t-bbbbbbbbbb",
		Nodes: []media.TranscriptNode{{Index: 0, Content: "hi"}},
	})

	work, _ := lib.CreateTag("work", "", "")
	child, _ := lib.CreateTag("meetings", work.ID, "")

	if err := lib.TagObject(obj, work.ID, ""); err != nil {
		t.Fatal(err)
	}
	entry, _ := obj.ResolveEntry(media.EntryTranscripts, "-1")
	if err := lib.TagEntry(entry, work.ID, ""); err != nil {
		t.Fatal(err)
	}
	group, _ := lib.CreateGroup("g", "", "")
	if err := lib.TagGroup(group, work.ID, ""); err != nil {
		t.Fatal(err)
	}

	removed, err := lib.DeleteTag(work.ID)
	if err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("stripped %d assignments, want 3", removed)
	}
	if len(obj.Metadata.Tags) != 0 || len(entry.Assignments()) != 0 || len(group.Tags) != 0 {
		t.Fatal("assignments survived DeleteTag")
	}
	if len(child.Parents) != 0 {
		t.Fatal("child tag still lists deleted parent")
	}
	if _, err := lib.ResolveTag("work"); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted tag still resolvable")
	}
}

func TestAmbiguousTagMessageEnumeratesCandidates(t *testing.T) {
	lib := newTestLibrary(t)
	work, _ := lib.CreateTag("work", "", "")
	personal, _ := lib.CreateTag("personal", "", "")
	// Force a shared ID prefix of five characters.
	work.ID = "aaaaa-work"
	personal.ID = "aaaaa-personal"

	_, err := lib.ResolveTag("aaaaa")
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("shared prefix returned %v, want ErrAmbiguous", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "work") || !strings.Contains(msg, "personal") {
		t.Fatalf("ambiguity message does not enumerate candidates: %q", msg)
	}
}

func TestAmbiguousTagMessageHandlesShortIDs(t *testing.T) {
	lib := newTestLibrary(t)
	first, _ := lib.CreateTag("work", "", "")
	second, _ := lib.CreateTag("personal", "", "")
	// Hand-written library files may carry IDs shorter than the prefix
	// width; enumeration must still render them whole.
	first.ID = "ab1"
	second.ID = "cd2"
	second.Name = "work"

	_, err := lib.ResolveTag("work")
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("duplicate name returned %v, want ErrAmbiguous", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "(ab1)") || !strings.Contains(msg, "(cd2)") {
		t.Fatalf("ambiguity message does not show short IDs: %q", msg)
	}
}

func TestRenameTagKeepsUniqueness(t *testing.T) {
	lib := newTestLibrary(t)
	work, _ := lib.CreateTag("work", "", "")
	lib.CreateTag("personal", "", "")

	if err := lib.RenameTag(work.ID, "Personal"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("rename collision returned %v, want ErrDuplicate", err)
	}
	if err := lib.RenameTag(work.ID, "projects"); err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if work.Name != "projects" {
		t.Fatalf("name = %q", work.Name)
	}
}
