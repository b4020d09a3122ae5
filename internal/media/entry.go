package media

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for entry resolution and tag assignment. The library layer
// maps these onto its user-facing taxonomy.
var (
	ErrEntryNotFound        = errors.New("entry not found")
	ErrDuplicateAssignment  = errors.New("tag already assigned")
	ErrAssignmentNotPresent = errors.New("tag not assigned")
)

// EntryType names a sub-entry collection of a media object.
type EntryType string

const (
	EntryTranscripts   EntryType = "transcripts"
	EntrySpeechData    EntryType = "speech_data"
	EntryProcessedText EntryType = "processed_text"
)

// ParseEntryType validates an entry type string.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryTranscripts, EntrySpeechData, EntryProcessedText:
		return EntryType(s), nil
	}
	return "", fmt.Errorf("invalid entry type %q", s)
}

// TagAssignment records one tag applied to an object, entry, or group.
type TagAssignment struct {
	TagID        string    `json:"tag_id"`
	DateAssigned time.Time `json:"date_assigned,omitzero"`
	Source       string    `json:"source,omitempty"`
}

// WordAlignment is a word-level timing produced by the transcription service.
type WordAlignment struct {
	Word  string  `json:"word"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// TranscriptNode is one time-aligned segment of a transcript.
type TranscriptNode struct {
	Index   int             `json:"index"`
	Start   float64         `json:"start"`
	End     float64         `json:"end"`
	Speaker string          `json:"speaker,omitempty"`
	Content string          `json:"content"`
	Words   []WordAlignment `json:"words,omitempty"`
}

// TranscriptionParams is the provenance block stored with a transcript.
type TranscriptionParams struct {
	WhisperVersion string `json:"whisper_version,omitempty"`
	InitialPrompt  string `json:"initial_prompt,omitempty"`
	Diarize        bool   `json:"diarize"`
	SpeakerCount   int    `json:"speaker_count,omitempty"`
	Device         string `json:"device,omitempty"`
	BatchSize      int    `json:"batch_size,omitempty"`
}

// Transcript is a raw, aligned speech-to-text entry.
type Transcript struct {
	ID         string              `json:"id"`
	DateStored time.Time           `json:"date_stored"`
	Params     TranscriptionParams `json:"params"`
	Nodes      []TranscriptNode    `json:"nodes"`
	Tags       []TagAssignment     `json:"tags,omitempty"`
}

// SpeechNode is one leaf or interior node of a resegmented entry. Parent, if
// set, points at an earlier node index.
type SpeechNode struct {
	Index  int    `json:"index"`
	Parent *int   `json:"parent,omitempty"`
	Text   string `json:"text"`
}

// Section labels a contiguous, inclusive node index range of a speech-data
// entry.
type Section struct {
	Label   string `json:"label"`
	Indeces [2]int `json:"indeces"`
}

// Contains reports whether the node index falls inside the section.
func (s Section) Contains(index int) bool {
	return index >= s.Indeces[0] && index <= s.Indeces[1]
}

// SpeechData is the sectioned, hierarchical reinterpretation of a transcript.
type SpeechData struct {
	ID               string          `json:"id"`
	DateStored       time.Time       `json:"date_stored"`
	SourceTranscript string          `json:"source_transcript"`
	ProcessMode      string          `json:"process_mode,omitempty"`
	ProcessorParams  map[string]any  `json:"processor_params,omitempty"`
	Sections         []Section       `json:"sections"`
	Nodes            []SpeechNode    `json:"nodes"`
	Tags             []TagAssignment `json:"tags,omitempty"`
}

// ProcessedText is a named snapshot of derived text.
type ProcessedText struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Text      string    `json:"text,omitempty"`
}

// Entry is the uniform view over taggable, searchable sub-entries
// (transcripts and speech data).
type Entry interface {
	EntryID() string
	Type() EntryType
	StoredAt() time.Time
	Assignments() []TagAssignment
	AddTag(TagAssignment) error
	RemoveTag(tagID string) error
	// Texts returns node text in document order; position equals node index.
	Texts() []string
}

func (t *Transcript) EntryID() string              { return t.ID }
func (t *Transcript) Type() EntryType              { return EntryTranscripts }
func (t *Transcript) StoredAt() time.Time          { return t.DateStored }
func (t *Transcript) Assignments() []TagAssignment { return t.Tags }

func (t *Transcript) AddTag(ta TagAssignment) error {
	return addAssignment(&t.Tags, ta)
}

func (t *Transcript) RemoveTag(tagID string) error {
	return removeAssignment(&t.Tags, tagID)
}

func (t *Transcript) Texts() []string {
	texts := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		texts[i] = n.Content
	}
	return texts
}

// Validate checks that node indices are dense and in document order.
func (t *Transcript) Validate() error {
	for i, n := range t.Nodes {
		if n.Index != i {
			return fmt.Errorf("transcript %s: node at position %d has index %d", t.ID, i, n.Index)
		}
	}
	return nil
}

func (s *SpeechData) EntryID() string              { return s.ID }
func (s *SpeechData) Type() EntryType              { return EntrySpeechData }
func (s *SpeechData) StoredAt() time.Time          { return s.DateStored }
func (s *SpeechData) Assignments() []TagAssignment { return s.Tags }

func (s *SpeechData) AddTag(ta TagAssignment) error {
	return addAssignment(&s.Tags, ta)
}

func (s *SpeechData) RemoveTag(tagID string) error {
	return removeAssignment(&s.Tags, tagID)
}

func (s *SpeechData) Texts() []string {
	texts := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		texts[i] = n.Text
	}
	return texts
}

// Depth returns a node's nesting depth, counting the parent links back to a
// root node. Root nodes have depth zero.
func (s *SpeechData) Depth(index int) int {
	depth := 0
	for index >= 0 && index < len(s.Nodes) {
		parent := s.Nodes[index].Parent
		if parent == nil {
			break
		}
		index = *parent
		depth++
	}
	return depth
}

// SectionFor returns the section containing the node index, if any.
func (s *SpeechData) SectionFor(index int) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Contains(index) {
			return sec, true
		}
	}
	return Section{}, false
}

// Validate checks the speech-data invariants: dense document-order node
// indices, parent links pointing at earlier nodes, and non-overlapping
// sections over valid indices.
func (s *SpeechData) Validate() error {
	for i, n := range s.Nodes {
		if n.Index != i {
			return fmt.Errorf("speech data %s: node at position %d has index %d", s.ID, i, n.Index)
		}
		if n.Parent != nil && (*n.Parent < 0 || *n.Parent >= n.Index) {
			return fmt.Errorf("speech data %s: node %d parent %d must reference an earlier node", s.ID, n.Index, *n.Parent)
		}
	}
	sections := make([]Section, len(s.Sections))
	copy(sections, s.Sections)
	sort.Slice(sections, func(i, j int) bool { return sections[i].Indeces[0] < sections[j].Indeces[0] })
	prevEnd := -1
	for _, sec := range sections {
		start, end := sec.Indeces[0], sec.Indeces[1]
		if start < 0 || end < start || end >= len(s.Nodes) {
			return fmt.Errorf("speech data %s: section %q range %d-%d is out of bounds", s.ID, sec.Label, start, end)
		}
		if start <= prevEnd {
			return fmt.Errorf("speech data %s: section %q overlaps a preceding section", s.ID, sec.Label)
		}
		prevEnd = end
	}
	return nil
}

func addAssignment(tags *[]TagAssignment, ta TagAssignment) error {
	for _, existing := range *tags {
		if existing.TagID == ta.TagID {
			return fmt.Errorf("%w: %s", ErrDuplicateAssignment, ta.TagID)
		}
	}
	*tags = append(*tags, ta)
	return nil
}

func removeAssignment(tags *[]TagAssignment, tagID string) error {
	for i, existing := range *tags {
		if existing.TagID == tagID {
			*tags = append((*tags)[:i], (*tags)[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrAssignmentNotPresent, tagID)
}

// resolveEntrySlot resolves a selector against an ordered entry list:
// "-1" selects the last entry, a non-negative integer selects by position,
// anything else is treated as an ID prefix.
func resolveEntrySlot(count int, id func(int) string, sel string) (int, error) {
	sel = strings.TrimSpace(sel)
	if count == 0 {
		return 0, fmt.Errorf("%w: no entries", ErrEntryNotFound)
	}
	if sel == "-1" {
		return count - 1, nil
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= count {
			return 0, fmt.Errorf("%w: index %d out of range (have %d)", ErrEntryNotFound, idx, count)
		}
		return idx, nil
	}
	for i := 0; i < count; i++ {
		if strings.HasPrefix(id(i), sel) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no entry ID matches %q", ErrEntryNotFound, sel)
}
