package export

import (
	"fmt"
	"strings"

	"catalog/internal/media"
)

const (
	// defaultPauseSensitivity positions the paragraph-break threshold
	// between the shortest and longest pause observed in the transcript.
	defaultPauseSensitivity = 0.5

	// timestampInterval is the minimum spacing between inline timestamps.
	timestampInterval = 80.0

	sectionSeparator = "============"
)

// RenderOptions adjust transcript rendering.
type RenderOptions struct {
	// PauseSensitivity in [0,1]; lower values break paragraphs on shorter
	// pauses. Zero means the default.
	PauseSensitivity float64

	// SpeakerNames replaces positional speaker labels; index n covers
	// diarization speaker n.
	SpeakerNames []string

	// Timestamps enables inline **MM:SS** markers.
	Timestamps bool
}

// FormatTranscript renders a transcript as readable paragraphs. Consecutive
// segments by the same speaker separated by a short pause are joined with a
// space; longer pauses or speaker changes start a new paragraph.
func FormatTranscript(t *media.Transcript, opts RenderOptions) string {
	if len(t.Nodes) == 0 {
		return ""
	}
	sensitivity := opts.PauseSensitivity
	if sensitivity <= 0 {
		sensitivity = defaultPauseSensitivity
	}
	threshold := pauseThreshold(t.Nodes, sensitivity)

	var b strings.Builder
	lastTimestamp := -timestampInterval
	lastSpeaker := ""
	for i, node := range t.Nodes {
		text := strings.TrimSpace(node.Content)
		if text == "" {
			continue
		}
		pause := 0.0
		if i > 0 {
			pause = node.Start - t.Nodes[i-1].End
		}
		// A due timestamp forces its own paragraph break so the marker never
		// lands mid-sentence.
		timestampDue := opts.Timestamps && node.Start-lastTimestamp >= timestampInterval
		newParagraph := i == 0 || pause >= threshold || node.Speaker != lastSpeaker || timestampDue
		if i > 0 {
			if newParagraph {
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		}
		if newParagraph {
			if timestampDue {
				fmt.Fprintf(&b, "**%s** ", formatTimestamp(node.Start))
				lastTimestamp = node.Start
			}
			if label := speakerLabel(node.Speaker, opts.SpeakerNames); label != "" {
				fmt.Fprintf(&b, "_%s:_ ", label)
			}
		}
		b.WriteString(text)
		lastSpeaker = node.Speaker
	}
	return b.String()
}

// FormatSpeechData renders a speech-data entry with one heading per section
// and nodes as bullets indented by nesting depth. Nodes outside every section
// appear after a separator line.
func FormatSpeechData(sd *media.SpeechData) string {
	var b strings.Builder
	covered := make([]bool, len(sd.Nodes))
	for i, sec := range sd.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n", sec.Label)
		for idx := sec.Indeces[0]; idx <= sec.Indeces[1] && idx < len(sd.Nodes); idx++ {
			covered[idx] = true
			writeBullet(&b, sd, idx)
		}
	}
	orphans := false
	for idx, done := range covered {
		if done {
			continue
		}
		if !orphans {
			if b.Len() > 0 {
				b.WriteString("\n" + sectionSeparator + "\n")
			}
			orphans = true
		}
		writeBullet(&b, sd, idx)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeBullet(b *strings.Builder, sd *media.SpeechData, idx int) {
	indent := strings.Repeat("  ", sd.Depth(idx))
	fmt.Fprintf(b, "%s- %s\n", indent, sd.Nodes[idx].Text)
}

// pauseThreshold derives the paragraph-break pause from the observed inter-node
// gaps: the minimum pause plus a sensitivity-scaled share of the range.
func pauseThreshold(nodes []media.TranscriptNode, sensitivity float64) float64 {
	minPause, maxPause := 0.0, 0.0
	first := true
	for i := 1; i < len(nodes); i++ {
		pause := nodes[i].Start - nodes[i-1].End
		if pause < 0 {
			pause = 0
		}
		if first {
			minPause, maxPause = pause, pause
			first = false
			continue
		}
		if pause < minPause {
			minPause = pause
		}
		if pause > maxPause {
			maxPause = pause
		}
	}
	return minPause + (maxPause-minPause)*sensitivity
}

// speakerLabel maps a diarization label like "SPEAKER_01" to a display name
// from the names list, or to a positional "S2" label.
func speakerLabel(speaker string, names []string) string {
	if speaker == "" {
		return ""
	}
	idx := speakerIndex(speaker)
	if idx >= 0 && idx < len(names) {
		return names[idx]
	}
	if idx >= 0 {
		return fmt.Sprintf("S%d", idx+1)
	}
	return speaker
}

func speakerIndex(speaker string) int {
	const prefix = "SPEAKER_"
	if !strings.HasPrefix(speaker, prefix) {
		return -1
	}
	n := 0
	for _, r := range speaker[len(prefix):] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
