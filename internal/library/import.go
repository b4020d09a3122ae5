package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"catalog/internal/fileutil"
	"catalog/internal/logging"
	"catalog/internal/media"
)

// kindByExtension infers the media variant for auto imports.
var kindByExtension = map[string]media.Kind{
	".mp3":  media.KindVoice,
	".wav":  media.KindVoice,
	".flac": media.KindVoice,
	".m4a":  media.KindVoice,
	".ogg":  media.KindVoice,
	".mp4":  media.KindVideo,
	".mkv":  media.KindVideo,
	".webm": media.KindVideo,
	".avi":  media.KindVideo,
	".mov":  media.KindVideo,
	".jpg":  media.KindImage,
	".jpeg": media.KindImage,
	".png":  media.KindImage,
	".gif":  media.KindImage,
	".webp": media.KindImage,
	".json": media.KindChat,
}

// ImportOptions controls a single file import.
type ImportOptions struct {
	// Kind is the explicit variant. Ignored when Auto is set.
	Kind media.Kind
	// Auto infers the variant from the file extension, falling back to
	// content sniffing when the extension is unknown.
	Auto bool
	// Name overrides the display name; defaults to the source filename.
	Name string
	// URL records where the file came from, when known.
	URL string
	// CopyToDatastore copies the file into the datastore keyed by the new
	// object's ID. When false the object references the source path.
	CopyToDatastore bool
}

// Import brings a file into the library as exactly one media object. Content
// is hashed before anything is constructed, so importing the same bytes
// twice returns the existing object and reports imported=false.
func (l *Library) Import(source string, opts ImportOptions) (*media.Object, bool, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, Wrap(ErrNotFound, "import", fmt.Sprintf("source file %s", source), nil)
		}
		return nil, false, fmt.Errorf("stat source file: %w", err)
	}
	if info.IsDir() {
		return nil, false, Wrap(ErrMalformed, "import", fmt.Sprintf("%s is a directory", source), nil)
	}

	kind := opts.Kind
	if opts.Auto {
		kind, err = inferKind(source)
		if err != nil {
			return nil, false, err
		}
	}
	if _, err := media.ParseKind(string(kind)); err != nil {
		return nil, false, Wrap(ErrMalformed, "import", "", err)
	}

	hash, err := fileutil.MD5Sum(source)
	if err != nil {
		return nil, false, fmt.Errorf("hash source file: %w", err)
	}
	for _, existing := range l.objects {
		if existing.MD5Hash != "" && existing.MD5Hash == hash {
			l.logger.Info("import deduplicated by content hash",
				logging.String("media_id", existing.ShortID()),
				logging.String("source", source))
			return existing, false, nil
		}
	}

	obj := media.New(kind)
	obj.MD5Hash = hash
	obj.FilePath = source
	obj.Metadata.SourceFilename = filepath.Base(source)
	obj.Metadata.Name = opts.Name
	obj.Metadata.URL = opts.URL
	if modTime := info.ModTime(); !modTime.IsZero() {
		obj.Metadata.DateModified = modTime.UTC()
	}

	if opts.CopyToDatastore {
		if l.datastoreDir == "" {
			return nil, false, fmt.Errorf("datastore directory not configured")
		}
		if err := os.MkdirAll(l.datastoreDir, 0o755); err != nil {
			return nil, false, fmt.Errorf("create datastore directory: %w", err)
		}
		destination := filepath.Join(l.datastoreDir, obj.ID+strings.ToLower(filepath.Ext(source)))
		digest, err := fileutil.CopyFileVerified(source, destination)
		if err != nil {
			return nil, false, fmt.Errorf("copy into datastore: %w", err)
		}
		if digest != hash {
			_ = os.Remove(destination)
			return nil, false, fmt.Errorf("source file changed during import: hash %s became %s", hash, digest)
		}
		obj.FilePath = destination
	}

	l.objects = append(l.objects, obj)
	obj.Metadata.DateStored = time.Now().UTC()

	if err := l.Save(); err != nil {
		return nil, false, err
	}

	l.logger.Info("imported media object",
		logging.String("media_id", obj.ShortID()),
		logging.String("kind", string(kind)),
		logging.String("source", source))
	return obj, true, nil
}

// ImportURL registers a reference-only object for a remote source. No bytes
// are fetched, so the kind must be given explicitly and deduplication keys
// on the URL instead of a content hash.
func (l *Library) ImportURL(url string, kind media.Kind, name string) (*media.Object, bool, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, false, Wrap(ErrMalformed, "import url", fmt.Sprintf("%q is not an http(s) URL", url), nil)
	}
	if _, err := media.ParseKind(string(kind)); err != nil {
		return nil, false, Wrap(ErrMalformed, "import url", "", err)
	}

	for _, existing := range l.objects {
		if existing.Metadata.URL == url {
			return existing, false, nil
		}
	}

	obj := media.New(kind)
	obj.Metadata.URL = url
	obj.Metadata.Name = name
	l.objects = append(l.objects, obj)

	if err := l.Save(); err != nil {
		return nil, false, err
	}

	l.logger.Info("registered remote media object",
		logging.String("media_id", obj.ShortID()),
		logging.String("url", url))
	return obj, true, nil
}

func inferKind(source string) (media.Kind, error) {
	ext := strings.ToLower(filepath.Ext(source))
	if kind, ok := kindByExtension[ext]; ok {
		return kind, nil
	}
	kind, err := sniffKind(source)
	if err != nil {
		return "", Wrap(ErrMalformed, "import", fmt.Sprintf("unsupported file extension %q", ext), nil)
	}
	return kind, nil
}

// sniffKind falls back to magic-number detection for files whose extension
// is missing or unrecognized.
func sniffKind(source string) (media.Kind, error) {
	file, err := os.Open(source)
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 262)
	n, err := file.Read(head)
	if err != nil && n == 0 {
		return "", err
	}
	detected, err := filetype.Match(head[:n])
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(detected.MIME.Value, "audio/"):
		return media.KindVoice, nil
	case strings.HasPrefix(detected.MIME.Value, "video/"):
		return media.KindVideo, nil
	case strings.HasPrefix(detected.MIME.Value, "image/"):
		return media.KindImage, nil
	}
	return "", fmt.Errorf("unrecognized content type %q", detected.MIME.Value)
}
