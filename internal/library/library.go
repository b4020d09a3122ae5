package library

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"catalog/internal/logging"
	"catalog/internal/media"
)

// Tag is a node of the multi-parent tag forest. Qualified-name display walks
// the first listed parent only.
type Tag struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Parents     []string `json:"parents,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Group is a named, taggable collection of media objects and nested
// subgroups. Membership is by reference: an object may belong to any number
// of groups.
type Group struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	CreatedBy   string                `json:"created_by,omitempty"`
	DateCreated time.Time             `json:"date_created,omitzero"`
	Description string                `json:"description,omitempty"`
	Objects     []*media.Object       `json:"-"`
	Subgroups   []*Group              `json:"-"`
	Tags        []media.TagAssignment `json:"tags,omitempty"`
}

// Library is the aggregate root. It owns the object, tag, and group
// collections and the paths they persist to.
type Library struct {
	path         string
	datastoreDir string
	logger       *slog.Logger
	lock         *flock.Flock

	objects []*media.Object
	tags    []*Tag
	groups  []*Group
}

// Open loads the library document at path, starting empty when the file does
// not exist. An unparseable document is fatal.
func Open(path, datastoreDir string, logger *slog.Logger) (*Library, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("library path cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lib := &Library{
		path:         path,
		datastoreDir: datastoreDir,
		logger:       logging.NewComponentLogger(logger, "library"),
		lock:         flock.New(path + ".lock"),
	}
	if err := lib.load(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Path returns the location of the persisted document.
func (l *Library) Path() string { return l.path }

// DatastoreDir returns the directory imported files are copied into.
func (l *Library) DatastoreDir() string { return l.datastoreDir }

// Objects returns the media objects in storage order.
func (l *Library) Objects() []*media.Object { return l.objects }

// Tags returns every tag in the forest.
func (l *Library) Tags() []*Tag { return l.tags }

// Groups returns every group, subgroups included.
func (l *Library) Groups() []*Group { return l.groups }

// FetchObject selects the first media object whose ID starts with the given
// string. Prefix ambiguity is not detected for media objects; tags are the
// stricter namespace.
func (l *Library) FetchObject(id string) (*media.Object, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, Wrap(ErrNotFound, "fetch", "empty media id", nil)
	}
	for _, obj := range l.objects {
		if strings.HasPrefix(obj.ID, id) {
			return obj, nil
		}
	}
	return nil, Wrap(ErrNotFound, "fetch", fmt.Sprintf("no media object matches %q", id), nil)
}

// Fetch resolves each candidate ID in order. A single miss fails the whole
// call so batch CLI handlers can decide what to skip.
func (l *Library) Fetch(ids []string) ([]*media.Object, error) {
	objects := make([]*media.Object, 0, len(ids))
	for _, id := range ids {
		obj, err := l.FetchObject(id)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// FetchGroup resolves a group by ID prefix or exact name.
func (l *Library) FetchGroup(target string) (*Group, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, Wrap(ErrNotFound, "fetch group", "empty group target", nil)
	}
	for _, group := range l.groups {
		if strings.HasPrefix(group.ID, target) {
			return group, nil
		}
	}
	for _, group := range l.groups {
		if strings.EqualFold(group.Name, target) {
			return group, nil
		}
	}
	return nil, Wrap(ErrNotFound, "fetch group", fmt.Sprintf("no group matches %q", target), nil)
}

// Remove deletes an object from the library and from every group that holds
// it. When deleteFile is set the backing datastore file is removed as well.
// The caller is responsible for saving.
func (l *Library) Remove(obj *media.Object, deleteFile bool) error {
	index := -1
	for i, candidate := range l.objects {
		if candidate.ID == obj.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return Wrap(ErrNotFound, "remove", fmt.Sprintf("media object %s not in library", obj.ShortID()), nil)
	}

	if deleteFile && obj.FilePath != "" {
		if err := os.Remove(obj.FilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete backing file: %w", err)
		}
	}

	l.objects = append(l.objects[:index], l.objects[index+1:]...)
	for _, group := range l.groups {
		group.removeObject(obj.ID)
	}

	l.logger.Info("removed media object",
		logging.String("media_id", obj.ShortID()),
		logging.Bool("deleted_file", deleteFile && obj.FilePath != ""))
	return nil
}

// AddObject appends an already-constructed object. Import is the usual
// entry point; this exists for objects with no file backing, such as chats.
func (l *Library) AddObject(obj *media.Object) error {
	if err := obj.Validate(); err != nil {
		return Wrap(ErrMalformed, "add object", "", err)
	}
	for _, existing := range l.objects {
		if existing.ID == obj.ID {
			return Wrap(ErrDuplicate, "add object", fmt.Sprintf("media object %s already present", obj.ShortID()), nil)
		}
	}
	l.objects = append(l.objects, obj)
	return nil
}

func (g *Group) removeObject(id string) {
	for i, obj := range g.Objects {
		if obj.ID == id {
			g.Objects = append(g.Objects[:i], g.Objects[i+1:]...)
			return
		}
	}
}
