package main

import (
	"fmt"
	"strings"

	"catalog/internal/library"
	"catalog/internal/media"
)

const shortIDWidth = 8

func shortID(id string) string {
	if len(id) > shortIDWidth {
		return id[:shortIDWidth]
	}
	return id
}

// truncateText shortens s to width display runes, never splitting a
// multi-byte character.
func truncateText(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// fetchObjects resolves each ID prefix, reporting the first failure.
func fetchObjects(lib *library.Library, ids []string) ([]*media.Object, error) {
	objects := make([]*media.Object, 0, len(ids))
	for _, id := range ids {
		obj, err := lib.FetchObject(id)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", id, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
