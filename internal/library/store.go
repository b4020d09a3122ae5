package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"catalog/internal/logging"
	"catalog/internal/media"
)

// libraryDocument is the persisted shape of the aggregate. Groups serialize
// with their subgroups nested in full; load reconciles duplicates by ID so
// every group has exactly one in-memory instance.
type libraryDocument struct {
	MediaObjects []*media.Object `json:"media_objects"`
	Tags         []*Tag          `json:"tags"`
	Groups       []groupRecord   `json:"groups"`
}

type groupRecord struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	CreatedBy   string                `json:"created_by,omitempty"`
	DateCreated time.Time             `json:"date_created,omitzero"`
	Description string                `json:"description,omitempty"`
	Objects     []string              `json:"objects,omitempty"`
	Groups      []groupRecord         `json:"groups,omitempty"`
	Tags        []media.TagAssignment `json:"tags,omitempty"`
}

func (l *Library) load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("library document absent, starting empty", logging.String("path", l.path))
			return nil
		}
		return fmt.Errorf("read library document: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var doc libraryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse library document %s: %w", l.path, err)
	}

	for _, obj := range doc.MediaObjects {
		if err := obj.Validate(); err != nil {
			return fmt.Errorf("library document %s: %w", l.path, err)
		}
	}

	l.objects = doc.MediaObjects
	l.tags = doc.Tags
	l.groups = l.reconcileGroups(doc.Groups)

	l.logger.Debug("loaded library",
		logging.Int("objects", len(l.objects)),
		logging.Int("tags", len(l.tags)),
		logging.Int("groups", len(l.groups)))
	return nil
}

// reconcileGroups materializes group records into unique instances. A
// subgroup persisted inline under several parents collapses back to one
// Group, and member object IDs resolve against the loaded object set.
func (l *Library) reconcileGroups(records []groupRecord) []*Group {
	objectsByID := make(map[string]*media.Object, len(l.objects))
	for _, obj := range l.objects {
		objectsByID[obj.ID] = obj
	}

	registry := make(map[string]*Group)
	ordered := make([]*Group, 0, len(records))
	seen := make(map[string]bool)

	var materialize func(record groupRecord) *Group
	materialize = func(record groupRecord) *Group {
		if existing, ok := registry[record.ID]; ok {
			return existing
		}
		group := &Group{
			ID:          record.ID,
			Name:        record.Name,
			CreatedBy:   record.CreatedBy,
			DateCreated: record.DateCreated,
			Description: record.Description,
			Tags:        record.Tags,
		}
		registry[record.ID] = group
		for _, objectID := range record.Objects {
			obj, ok := objectsByID[objectID]
			if !ok {
				l.logger.Warn("group references missing media object",
					logging.String("group", record.Name),
					logging.String("media_id", objectID))
				continue
			}
			group.Objects = append(group.Objects, obj)
		}
		for _, sub := range record.Groups {
			group.Subgroups = append(group.Subgroups, materialize(sub))
		}
		return group
	}

	var collect func(record groupRecord)
	collect = func(record groupRecord) {
		group := materialize(record)
		if !seen[group.ID] {
			seen[group.ID] = true
			ordered = append(ordered, group)
		}
		for _, sub := range record.Groups {
			collect(sub)
		}
	}
	for _, record := range records {
		collect(record)
	}
	return ordered
}

// Save serializes the whole aggregate and replaces the document atomically.
// An advisory file lock guards against a concurrent writer losing changes.
func (l *Library) Save() error {
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("acquire library lock: %w", err)
	}
	defer func() {
		_ = l.lock.Unlock()
	}()

	doc := libraryDocument{
		MediaObjects: l.objects,
		Tags:         l.tags,
		Groups:       make([]groupRecord, 0, len(l.groups)),
	}
	for _, group := range l.groups {
		doc.Groups = append(doc.Groups, groupToRecord(group))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create library directory: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	l.logger.Debug("saved library",
		logging.Int("objects", len(l.objects)),
		logging.Int("tags", len(l.tags)),
		logging.Int("groups", len(l.groups)))
	return nil
}

func groupToRecord(group *Group) groupRecord {
	record := groupRecord{
		ID:          group.ID,
		Name:        group.Name,
		CreatedBy:   group.CreatedBy,
		DateCreated: group.DateCreated,
		Description: group.Description,
		Tags:        group.Tags,
	}
	for _, obj := range group.Objects {
		record.Objects = append(record.Objects, obj.ID)
	}
	for _, sub := range group.Subgroups {
		record.Groups = append(record.Groups, groupToRecord(sub))
	}
	return record
}
