package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog/internal/locator"
	"catalog/internal/media"
)

// Resegmenter is the external service that reorganizes flat transcript text
// into a sectioned S-expression document. Calls are blocking and are not
// retried here.
type Resegmenter interface {
	Resegment(ctx context.Context, text string, params map[string]any) (string, error)
}

// ParseDocument converts a resegmentation response of the form
//
//	(document (section "Label" "node" ("node" "subnode" ...) ...) ...)
//
// into section ranges and a dense, document-ordered node list. Interior
// list nodes contribute their first atom as a node of their own; the
// remaining elements nest beneath it via parent links. Sections that
// produced no nodes are dropped.
func ParseDocument(sexp string) ([]media.Section, []media.SpeechNode, error) {
	root, err := parseSexp(sexp)
	if err != nil {
		return nil, nil, err
	}
	if !root.isList || len(root.list) == 0 || root.list[0].atom != "document" {
		return nil, nil, fmt.Errorf("%w: top-level form is not (document ...)", ErrMalformedOutput)
	}

	var sections []media.Section
	var nodes []media.SpeechNode

	var processNode func(value sexpValue, parent *int) error
	processNode = func(value sexpValue, parent *int) error {
		index := len(nodes)
		if value.isList {
			if len(value.list) == 0 || value.list[0].isList {
				return fmt.Errorf("%w: interior node has no text", ErrMalformedOutput)
			}
			nodes = append(nodes, media.SpeechNode{Index: index, Parent: parent, Text: value.list[0].atom})
			self := index
			for _, sub := range value.list[1:] {
				if err := processNode(sub, &self); err != nil {
					return err
				}
			}
			return nil
		}
		nodes = append(nodes, media.SpeechNode{Index: index, Parent: parent, Text: value.atom})
		return nil
	}

	for _, section := range root.list[1:] {
		if !section.isList || len(section.list) < 2 || section.list[0].atom != "section" {
			return nil, nil, fmt.Errorf("%w: expected (section \"label\" ...) form", ErrMalformedOutput)
		}
		if section.list[1].isList {
			return nil, nil, fmt.Errorf("%w: section label is not an atom", ErrMalformedOutput)
		}
		label := section.list[1].atom
		start := len(nodes)
		for _, node := range section.list[2:] {
			if err := processNode(node, nil); err != nil {
				return nil, nil, err
			}
		}
		end := len(nodes) - 1
		if end < start {
			continue
		}
		sections = append(sections, media.Section{Label: label, Indeces: [2]int{start, end}})
	}
	return sections, nodes, nil
}

// Flatten joins a transcript's node contents into the newline-separated
// input the resegmentation service expects.
func Flatten(transcript *media.Transcript) string {
	texts := make([]string, len(transcript.Nodes))
	for i, node := range transcript.Nodes {
		texts[i] = node.Content
	}
	return strings.Join(texts, "\n")
}

// Prepare resegments one of the object's transcripts into a new speech-data
// entry and appends it to the object. The target selector follows the usual
// entry addressing rules; empty means the most recent transcript.
func Prepare(ctx context.Context, obj *media.Object, target string, svc Resegmenter, params map[string]any) (*media.SpeechData, error) {
	if !obj.Kind.CanTranscribe() {
		return nil, fmt.Errorf("media object %s (%s) has no transcripts to resegment", obj.ShortID(), obj.Kind)
	}
	if target == "" {
		target = "-1"
	}
	transcript, err := obj.ResolveTranscript(target)
	if err != nil {
		return nil, err
	}

	response, err := svc.Resegment(ctx, Flatten(transcript), params)
	if err != nil {
		return nil, err
	}
	sections, nodes, err := ParseDocument(response)
	if err != nil {
		return nil, err
	}

	entry := media.SpeechData{
		ID:               locator.NewID(),
		DateStored:       time.Now().UTC(),
		SourceTranscript: transcript.ID,
		ProcessMode:      "resegmenter",
		ProcessorParams:  params,
		Sections:         sections,
		Nodes:            nodes,
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	obj.SpeechData = append(obj.SpeechData, entry)
	obj.Metadata.DateModified = time.Now().UTC()
	return &obj.SpeechData[len(obj.SpeechData)-1], nil
}
