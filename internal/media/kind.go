package media

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies a media object variant. The set is closed; Unmarshal
// rejects anything outside it.
type Kind string

const (
	KindVoice      Kind = "Voice"
	KindAudio      Kind = "Audio"
	KindVideo      Kind = "Video"
	KindImage      Kind = "Image"
	KindScreenshot Kind = "Screenshot"
	KindChat       Kind = "Chat"
)

// Kinds returns every known variant in declaration order.
func Kinds() []Kind {
	return []Kind{KindVoice, KindAudio, KindVideo, KindImage, KindScreenshot, KindChat}
}

// ParseKind resolves a variant name case-insensitively.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(name, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown media kind %q", name)
}

// CanTranscribe reports whether the variant carries speech that the
// transcription service can process.
func (k Kind) CanTranscribe() bool {
	switch k {
	case KindVoice, KindAudio, KindVideo:
		return true
	default:
		return false
	}
}

// HasFile reports whether the variant is backed by a file in the datastore.
// Chats live entirely inside the library document.
func (k Kind) HasFile() bool {
	return k != KindChat
}

func (k Kind) String() string {
	return string(k)
}

// MarshalJSON emits the variant name as the class_name discriminator.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

// UnmarshalJSON validates the discriminator against the closed variant set.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
