package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog/internal/library"
	"catalog/internal/media"
	"catalog/internal/textutil"
)

// ObjectPointer renders the markdown pointer for a media object: YAML
// frontmatter carrying the ID and a kind tag, followed by the object's
// free-form text when present.
func ObjectPointer(obj *media.Object) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id:\n- %s\n", obj.ID)
	fmt.Fprintf(&b, "tags:\n- media/%s\n", strings.ToLower(string(obj.Kind)))
	b.WriteString("---")
	if obj.Text != "" {
		b.WriteString("\n")
		b.WriteString(obj.Text)
	}
	return b.String()
}

// GroupPointer renders the markdown pointer for a group, listing member
// objects as links by display name.
func GroupPointer(group *library.Group) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id:\n- %s\n", group.ID)
	b.WriteString("tags:\n- catalog/group\n")
	b.WriteString("---\n")
	if group.Description != "" {
		b.WriteString(group.Description)
		b.WriteString("\n\n")
	}
	for _, obj := range group.Objects {
		fmt.Fprintf(&b, "- [[%s]]\n", pointerFilename(obj))
	}
	for _, sub := range group.Subgroups {
		fmt.Fprintf(&b, "- [[%s]]\n", textutil.SanitizeFileName(sub.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

// TagPointer renders the markdown pointer for a tag.
func TagPointer(tag *library.Tag, qualifiedName string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id:\n- %s\n", tag.ID)
	fmt.Fprintf(&b, "tags:\n- catalog/tag\naliases:\n- %s\n", qualifiedName)
	b.WriteString("---")
	if tag.Description != "" {
		b.WriteString("\n")
		b.WriteString(tag.Description)
	}
	return b.String()
}

// WritePointer stores rendered pointer content as <dir>/<name>.md.
func WritePointer(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pointer directory: %w", err)
	}
	path := filepath.Join(dir, name+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write pointer %s: %w", path, err)
	}
	return nil
}

// Sync writes a pointer file for every object, group, and tag in the
// library. Existing files are overwritten; stale files are left alone.
func Sync(lib *library.Library, dir string) (int, error) {
	written := 0
	for _, obj := range lib.Objects() {
		if err := WritePointer(dir, pointerFilename(obj), ObjectPointer(obj)); err != nil {
			return written, err
		}
		written++
	}
	for _, group := range lib.Groups() {
		if err := WritePointer(dir, textutil.SanitizeFileName(group.Name), GroupPointer(group)); err != nil {
			return written, err
		}
		written++
	}
	for _, tag := range lib.Tags() {
		qualified, err := lib.TagName(tag.ID, true)
		if err != nil {
			return written, err
		}
		if err := WritePointer(dir, textutil.SanitizeFileName(tag.Name), TagPointer(tag, qualified)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func pointerFilename(obj *media.Object) string {
	if name := textutil.SanitizeFileName(obj.DisplayName()); name != "" {
		return name
	}
	return obj.ID
}
