package media

import (
	"fmt"
	"time"

	"catalog/internal/locator"
)

// Metadata is the recognized metadata block of every media object. Dates are
// zero-valued when unknown and omitted from the persisted document.
type Metadata struct {
	Name           string          `json:"name,omitempty"`
	URL            string          `json:"url,omitempty"`
	DateCreated    time.Time       `json:"date_created,omitzero"`
	DateModified   time.Time       `json:"date_modified,omitzero"`
	DateStored     time.Time       `json:"date_stored,omitzero"`
	DateRecorded   time.Time       `json:"date_recorded,omitzero"`
	SourceFilename string          `json:"source_filename,omitempty"`
	Tags           []TagAssignment `json:"tags,omitempty"`
}

// ChatMessage is one message of a chat transcript.
type ChatMessage struct {
	Speaker string    `json:"speaker,omitempty"`
	Time    time.Time `json:"time,omitzero"`
	Content string    `json:"content"`
}

// Object is a cataloged media record. The Kind discriminator selects the
// variant; entry lists that do not apply to a variant stay empty and are
// omitted from the serialized form.
type Object struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"class_name"`
	Metadata Metadata `json:"metadata"`

	FilePath string `json:"file_path,omitempty"`
	MD5Hash  string `json:"md5_hash,omitempty"`

	Text          string          `json:"text,omitempty"`
	Description   string          `json:"description,omitempty"`
	ProcessedText []ProcessedText `json:"processed_text,omitempty"`

	Transcripts []Transcript `json:"transcripts,omitempty"`
	SpeechData  []SpeechData `json:"speech_data,omitempty"`

	Participants []string          `json:"participants,omitempty"`
	Messages     []ChatMessage     `json:"messages,omitempty"`
	ChatMetadata map[string]string `json:"chat_metadata,omitempty"`
}

// New constructs an object of the given kind with a fresh ID and the stored
// timestamp set to now.
func New(kind Kind) *Object {
	return &Object{
		ID:   locator.NewID(),
		Kind: kind,
		Metadata: Metadata{
			DateStored: time.Now().UTC(),
		},
	}
}

// DisplayName prefers the assigned name, falling back to the source filename.
func (o *Object) DisplayName() string {
	if o.Metadata.Name != "" {
		return o.Metadata.Name
	}
	return o.Metadata.SourceFilename
}

// ShortID is the display prefix of the object ID.
func (o *Object) ShortID() string {
	if len(o.ID) <= locator.MediaIDWidth {
		return o.ID
	}
	return o.ID[:locator.MediaIDWidth]
}

// ResolveTranscript resolves a transcript by selector: "-1" for the most
// recent, a non-negative integer for a positional index, or an ID prefix.
func (o *Object) ResolveTranscript(sel string) (*Transcript, error) {
	i, err := resolveEntrySlot(len(o.Transcripts), func(i int) string { return o.Transcripts[i].ID }, sel)
	if err != nil {
		return nil, err
	}
	return &o.Transcripts[i], nil
}

// ResolveSpeechData resolves a speech-data entry by selector.
func (o *Object) ResolveSpeechData(sel string) (*SpeechData, error) {
	i, err := resolveEntrySlot(len(o.SpeechData), func(i int) string { return o.SpeechData[i].ID }, sel)
	if err != nil {
		return nil, err
	}
	return &o.SpeechData[i], nil
}

// ResolveProcessedText resolves a processed-text snapshot by selector.
func (o *Object) ResolveProcessedText(sel string) (*ProcessedText, error) {
	i, err := resolveEntrySlot(len(o.ProcessedText), func(i int) string { return o.ProcessedText[i].ID }, sel)
	if err != nil {
		return nil, err
	}
	return &o.ProcessedText[i], nil
}

// ResolveEntry resolves a taggable entry (transcript or speech data) by
// entry type and selector.
func (o *Object) ResolveEntry(entryType EntryType, sel string) (Entry, error) {
	switch entryType {
	case EntryTranscripts:
		return o.ResolveTranscript(sel)
	case EntrySpeechData:
		return o.ResolveSpeechData(sel)
	default:
		return nil, fmt.Errorf("entry type %q is not taggable", entryType)
	}
}

// LatestEntry returns the most recent speech-data entry, falling back to the
// most recent transcript, for search and embedding scope selection.
func (o *Object) LatestEntry() (Entry, bool) {
	if len(o.SpeechData) > 0 {
		return &o.SpeechData[len(o.SpeechData)-1], true
	}
	if len(o.Transcripts) > 0 {
		return &o.Transcripts[len(o.Transcripts)-1], true
	}
	return nil, false
}

// AllEntries returns every transcript and speech-data entry in storage order.
func (o *Object) AllEntries() []Entry {
	entries := make([]Entry, 0, len(o.Transcripts)+len(o.SpeechData))
	for i := range o.Transcripts {
		entries = append(entries, &o.Transcripts[i])
	}
	for i := range o.SpeechData {
		entries = append(entries, &o.SpeechData[i])
	}
	return entries
}

// RemoveEntry deletes the entry with the exact ID from the named collection.
func (o *Object) RemoveEntry(entryType EntryType, entryID string) error {
	switch entryType {
	case EntryTranscripts:
		for i := range o.Transcripts {
			if o.Transcripts[i].ID == entryID {
				o.Transcripts = append(o.Transcripts[:i], o.Transcripts[i+1:]...)
				return nil
			}
		}
	case EntrySpeechData:
		for i := range o.SpeechData {
			if o.SpeechData[i].ID == entryID {
				o.SpeechData = append(o.SpeechData[:i], o.SpeechData[i+1:]...)
				return nil
			}
		}
	case EntryProcessedText:
		for i := range o.ProcessedText {
			if o.ProcessedText[i].ID == entryID {
				o.ProcessedText = append(o.ProcessedText[:i], o.ProcessedText[i+1:]...)
				return nil
			}
		}
	default:
		return fmt.Errorf("invalid entry type %q", entryType)
	}
	return fmt.Errorf("%w: %s entry %s", ErrEntryNotFound, entryType, entryID)
}

// AddTag records a tag assignment on the object itself.
func (o *Object) AddTag(ta TagAssignment) error {
	return addAssignment(&o.Metadata.Tags, ta)
}

// RemoveTag strips a tag assignment from the object.
func (o *Object) RemoveTag(tagID string) error {
	return removeAssignment(&o.Metadata.Tags, tagID)
}

// AddProcessedText appends a named snapshot of derived text and returns it.
func (o *Object) AddProcessedText(label, source, text string) ProcessedText {
	snapshot := ProcessedText{
		ID:        locator.NewID(),
		Label:     label,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Text:      text,
	}
	o.ProcessedText = append(o.ProcessedText, snapshot)
	o.Metadata.DateModified = time.Now().UTC()
	return snapshot
}

// Validate checks the object's entry invariants. Called after load so a
// hand-edited document cannot smuggle in malformed entries.
func (o *Object) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("media object with empty ID")
	}
	if _, err := ParseKind(string(o.Kind)); err != nil {
		return fmt.Errorf("media object %s: %w", o.ID, err)
	}
	for i := range o.Transcripts {
		if err := o.Transcripts[i].Validate(); err != nil {
			return fmt.Errorf("media object %s: %w", o.ID, err)
		}
	}
	for i := range o.SpeechData {
		if err := o.SpeechData[i].Validate(); err != nil {
			return fmt.Errorf("media object %s: %w", o.ID, err)
		}
	}
	return nil
}
