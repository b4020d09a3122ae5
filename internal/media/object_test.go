package media

import (
	"encoding/json"
	"testing"
	"time"
)

func TestKindCapabilities(t *testing.T) {
	for kind, want := range map[Kind]bool{
		KindVoice:      true,
		KindAudio:      true,
		KindVideo:      true,
		KindImage:      false,
		KindScreenshot: false,
		KindChat:       false,
	} {
		if got := kind.CanTranscribe(); got != want {
			t.Errorf("%s.CanTranscribe() = %v, want %v", kind, got, want)
		}
	}
	if KindChat.HasFile() {
		t.Error("Chat objects must not require file backing")
	}
}

func TestParseKindCaseInsensitive(t *testing.T) {
	kind, err := ParseKind("voice")
	if err != nil || kind != KindVoice {
		t.Fatalf("ParseKind(voice) = %v, %v", kind, err)
	}
	if _, err := ParseKind("Document"); err == nil {
		t.Fatal("ParseKind accepted an unknown variant")
	}
}

func TestKindDiscriminatorRoundTrip(t *testing.T) {
	obj := New(KindScreenshot)
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	if raw["class_name"] != "Screenshot" {
		t.Fatalf("class_name discriminator = %v", raw["class_name"])
	}

	var restored Object
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Kind != KindScreenshot || restored.ID != obj.ID {
		t.Fatalf("restored object = %+v", restored)
	}
}

func TestKindDiscriminatorRejectsUnknown(t *testing.T) {
	var obj Object
	if err := json.Unmarshal([]byte(`{"id":"x","class_name":"Widget","metadata":{}}`), &obj); err == nil {
		t.Fatal("unmarshal accepted an unknown class_name")
	}
}

func TestSerializationIdempotence(t *testing.T) {
	obj := New(KindVoice)
	obj.Metadata.Name = "standup"
	obj.Metadata.SourceFilename = "standup.mp3"
	obj.Metadata.DateRecorded = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	obj.FilePath = "/data/store/" + obj.ID + ".mp3"
	obj.MD5Hash = "d41d8cd98f00b204e9800998ecf8427e"
	obj.Transcripts = []Transcript{{
		ID:         "t-1",
		DateStored: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Params:     TranscriptionParams{WhisperVersion: "large-v2", Diarize: true, SpeakerCount: 2},
		Nodes: []TranscriptNode{
			{Index: 0, Start: 0, End: 2.5, Speaker: "SPEAKER_00", Content: "good morning"},
			{Index: 1, Start: 2.5, End: 4.0, Content: "quick updates"},
		},
	}}
	obj.SpeechData = []SpeechData{sampleSpeechData("sd-1")}

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var restored Object
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if restored.ID != obj.ID || restored.MD5Hash != obj.MD5Hash {
		t.Fatal("identity fields changed across serialization")
	}
	if restored.Metadata.Name != obj.Metadata.Name || !restored.Metadata.DateRecorded.Equal(obj.Metadata.DateRecorded) {
		t.Fatal("metadata changed across serialization")
	}
	if len(restored.Transcripts) != 1 || restored.Transcripts[0].Nodes[1].Content != "quick updates" {
		t.Fatal("transcripts changed across serialization")
	}
	if len(restored.SpeechData) != 1 || restored.SpeechData[0].Sections[1].Label != "Body" {
		t.Fatal("speech data changed across serialization")
	}
	if restored.SpeechData[0].Nodes[1].Parent == nil || *restored.SpeechData[0].Nodes[1].Parent != 0 {
		t.Fatal("parent links changed across serialization")
	}

	again, err := json.Marshal(&restored)
	if err != nil {
		t.Fatalf("second marshal failed: %v", err)
	}
	if string(again) != string(data) {
		t.Fatal("serialization is not idempotent")
	}
}

func TestAddProcessedText(t *testing.T) {
	obj := New(KindChat)
	snapshot := obj.AddProcessedText("summary", "manual", "short recap")
	if snapshot.ID == "" || snapshot.Text != "short recap" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	resolved, err := obj.ResolveProcessedText(snapshot.ID[:5])
	if err != nil || resolved.Label != "summary" {
		t.Fatalf("ResolveProcessedText = %+v, %v", resolved, err)
	}
	if obj.Metadata.DateModified.IsZero() {
		t.Fatal("DateModified not set by AddProcessedText")
	}
}

func TestObjectValidate(t *testing.T) {
	obj := New(KindVoice)
	obj.SpeechData = []SpeechData{sampleSpeechData("sd-1")}
	if err := obj.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	obj.SpeechData[0].Sections[0].Indeces = [2]int{0, 99}
	if err := obj.Validate(); err == nil {
		t.Fatal("Validate accepted a corrupt speech data entry")
	}
}
