package textutil

import "strings"

// pointerNameReplacer maps characters that break pointer filenames or
// wiki-style [[links]] to safe alternatives. Path separators and colons
// become dashes so the name still reads; the rest are dropped.
var pointerNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"[", "",
	"]", "",
	"#", "",
)

// SanitizeFileName turns a display name into a pointer filename. Unsafe
// characters are replaced or dropped, whitespace runs collapse to a single
// space, and leading dots are stripped so pointers never become hidden
// files. Returns "" when nothing printable survives; callers fall back to
// the object ID.
func SanitizeFileName(name string) string {
	name = pointerNameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimLeft(name, ".")
}
