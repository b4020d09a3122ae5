package library

import (
	"fmt"
	"strings"
	"time"

	"catalog/internal/locator"
	"catalog/internal/media"
)

// ResolveLocator parses a locator string and returns the text it addresses:
// a node range joined by newlines, a whole entry's text, or the object's
// free-form text when no entry is named.
func (l *Library) ResolveLocator(raw string) (string, error) {
	loc, err := locator.Parse(raw)
	if err != nil {
		return "", Wrap(ErrMalformed, "resolve locator", raw, err)
	}

	obj, err := l.FetchObject(loc.MediaID)
	if err != nil {
		return "", err
	}

	if loc.EntryType == "" {
		if obj.Text == "" {
			return "", Wrap(ErrNotFound, "resolve locator",
				fmt.Sprintf("media object %s has no text", obj.ShortID()), nil)
		}
		return obj.Text, nil
	}

	entry, err := l.resolveEntryTarget(obj, loc)
	if err != nil {
		return "", err
	}

	texts := entry.Texts()
	switch loc.Subfield {
	case "", "text":
		return strings.Join(texts, "\n"), nil
	case "nodes":
		if loc.Range == nil {
			return strings.Join(texts, "\n"), nil
		}
		start, end := loc.Range.Start, loc.Range.End
		if start < 0 || end >= len(texts) || start > end {
			return "", Wrap(ErrNotFound, "resolve locator",
				fmt.Sprintf("node range %s out of bounds for entry %s (%d nodes)", loc.Range, entry.EntryID(), len(texts)), nil)
		}
		return strings.Join(texts[start:end+1], "\n"), nil
	default:
		return "", Wrap(ErrMalformed, "resolve locator", fmt.Sprintf("unknown subfield %q", loc.Subfield), nil)
	}
}

// UpdateNode replaces the text of the single node a locator addresses. The
// locator must carry a nodes subfield with a single index. The caller is
// responsible for saving.
func (l *Library) UpdateNode(raw, text string) error {
	loc, err := locator.Parse(raw)
	if err != nil {
		return Wrap(ErrMalformed, "update node", raw, err)
	}
	if loc.EntryType == "" || loc.Subfield != "nodes" || loc.Range == nil {
		return Wrap(ErrMalformed, "update node", fmt.Sprintf("locator %q does not address a node", raw), nil)
	}
	if loc.Range.Start != loc.Range.End {
		return Wrap(ErrMalformed, "update node", fmt.Sprintf("locator %q addresses a range, need a single node", raw), nil)
	}

	obj, err := l.FetchObject(loc.MediaID)
	if err != nil {
		return err
	}
	entry, err := l.resolveEntryTarget(obj, loc)
	if err != nil {
		return err
	}

	index := loc.Range.Start
	switch concrete := entry.(type) {
	case *media.Transcript:
		if index < 0 || index >= len(concrete.Nodes) {
			return Wrap(ErrNotFound, "update node", fmt.Sprintf("node %d out of bounds", index), nil)
		}
		concrete.Nodes[index].Content = text
	case *media.SpeechData:
		if index < 0 || index >= len(concrete.Nodes) {
			return Wrap(ErrNotFound, "update node", fmt.Sprintf("node %d out of bounds", index), nil)
		}
		concrete.Nodes[index].Text = text
	default:
		return Wrap(ErrMalformed, "update node", fmt.Sprintf("entry type %s is not editable", entry.Type()), nil)
	}

	obj.Metadata.DateModified = time.Now().UTC()
	return nil
}

func (l *Library) resolveEntryTarget(obj *media.Object, loc locator.Locator) (media.Entry, error) {
	entryType, err := media.ParseEntryType(loc.EntryType)
	if err != nil {
		return nil, Wrap(ErrMalformed, "resolve locator", "", err)
	}
	selector := loc.EntryID
	if selector == "" {
		selector = "-1"
	}
	entry, err := obj.ResolveEntry(entryType, selector)
	if err != nil {
		return nil, Wrap(ErrNotFound, "resolve locator",
			fmt.Sprintf("media object %s", obj.ShortID()), err)
	}
	return entry, nil
}
