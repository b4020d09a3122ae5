package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog/internal/locator"
	"catalog/internal/logging"
	"catalog/internal/media"
)

// tagPrefixMin is the shortest ID prefix ResolveTag will match against.
const tagPrefixMin = 5

// CreateTag adds a tag to the forest. Names are unique across the whole
// forest regardless of parent, compared case-insensitively; this keeps
// name-based lookup unambiguous. The optional parent is resolved like any
// other tag target.
func (l *Library) CreateTag(name, parent, description string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Wrap(ErrMalformed, "create tag", "tag name cannot be empty", nil)
	}
	if strings.Contains(name, "/") {
		return nil, Wrap(ErrMalformed, "create tag", fmt.Sprintf("tag name %q may not contain '/'", name), nil)
	}
	for _, existing := range l.tags {
		if strings.EqualFold(existing.Name, name) {
			return nil, Wrap(ErrDuplicate, "create tag", fmt.Sprintf("tag named %q already exists", existing.Name), nil)
		}
	}

	tag := &Tag{
		ID:          locator.NewID(),
		Name:        name,
		Description: description,
	}
	if strings.TrimSpace(parent) != "" {
		parentTag, err := l.ResolveTag(parent)
		if err != nil {
			return nil, err
		}
		tag.Parents = []string{parentTag.ID}
	}
	l.tags = append(l.tags, tag)
	l.logger.Info("created tag", logging.String("tag", name))
	return tag, nil
}

// ResolveTag accepts a full ID, an ID prefix of at least five characters, or
// a plain or qualified name. Prefix and name matches with multiple
// candidates fail with ErrAmbiguous, enumerating every candidate.
func (l *Library) ResolveTag(target string) (*Tag, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, Wrap(ErrNotFound, "resolve tag", "empty tag target", nil)
	}

	for _, tag := range l.tags {
		if tag.ID == target {
			return tag, nil
		}
	}

	if len(target) >= tagPrefixMin {
		var matches []*Tag
		for _, tag := range l.tags {
			if strings.HasPrefix(tag.ID, target) {
				matches = append(matches, tag)
			}
		}
		switch len(matches) {
		case 0:
		case 1:
			return matches[0], nil
		default:
			return nil, Wrap(ErrAmbiguous, "resolve tag",
				fmt.Sprintf("prefix %q matches %s", target, enumerateTags(l, matches)), nil)
		}
	}

	var matches []*Tag
	for _, tag := range l.tags {
		qualified, err := l.TagName(tag.ID, true)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(qualified, target) || strings.EqualFold(tag.Name, leafName(target)) {
			matches = append(matches, tag)
		}
	}
	switch len(matches) {
	case 0:
		return nil, Wrap(ErrNotFound, "resolve tag", fmt.Sprintf("no tag matches %q", target), nil)
	case 1:
		return matches[0], nil
	default:
		return nil, Wrap(ErrAmbiguous, "resolve tag",
			fmt.Sprintf("name %q matches %s", target, enumerateTags(l, matches)), nil)
	}
}

// TagName renders a tag for display. With full set the first-parent chain is
// walked into a slash-joined qualified path; otherwise only the leaf name is
// returned.
func (l *Library) TagName(id string, full bool) (string, error) {
	tag, err := l.tagByID(id)
	if err != nil {
		return "", err
	}
	if !full {
		return tag.Name, nil
	}

	parts := []string{tag.Name}
	visited := map[string]bool{tag.ID: true}
	current := tag
	for len(current.Parents) > 0 {
		parent, err := l.tagByID(current.Parents[0])
		if err != nil {
			return "", err
		}
		if visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		parts = append([]string{parent.Name}, parts...)
		current = parent
	}
	return strings.Join(parts, "/"), nil
}

// EnsureTagPath resolves a qualified path like "work/meetings", creating any
// missing segment along the way, and returns the leaf tag. Existing segments
// are reused; a segment name that exists elsewhere in the forest resolves to
// that tag because names are globally unique.
func (l *Library) EnsureTagPath(path, source string) (*Tag, error) {
	segments := strings.Split(path, "/")
	var parent *Tag
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, Wrap(ErrMalformed, "ensure tag path", fmt.Sprintf("empty segment in %q", path), nil)
		}
		tag, err := l.tagByName(segment)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			parentID := ""
			if parent != nil {
				parentID = parent.ID
			}
			tag, err = l.CreateTag(segment, parentID, "")
			if err != nil {
				return nil, err
			}
		}
		parent = tag
	}
	return parent, nil
}

// DeleteTag removes a tag and strips its assignment from every object,
// entry, group, and child tag that references it. Returns the number of
// stripped assignments.
func (l *Library) DeleteTag(id string) (int, error) {
	tag, err := l.tagByID(id)
	if err != nil {
		return 0, err
	}

	index := -1
	for i, candidate := range l.tags {
		if candidate.ID == tag.ID {
			index = i
			break
		}
	}
	l.tags = append(l.tags[:index], l.tags[index+1:]...)

	removed := 0
	for _, obj := range l.objects {
		if obj.RemoveTag(tag.ID) == nil {
			removed++
		}
		for _, entry := range obj.AllEntries() {
			if entry.RemoveTag(tag.ID) == nil {
				removed++
			}
		}
	}
	for _, group := range l.groups {
		if removeGroupAssignment(group, tag.ID) {
			removed++
		}
	}
	for _, other := range l.tags {
		for i, parentID := range other.Parents {
			if parentID == tag.ID {
				other.Parents = append(other.Parents[:i], other.Parents[i+1:]...)
				break
			}
		}
	}

	l.logger.Info("deleted tag",
		logging.String("tag", tag.Name),
		logging.Int("stripped_assignments", removed))
	return removed, nil
}

// CountTagAssignments reports how many objects, entries, and groups carry
// the tag. Callers use it for destructive-confirmation prompts before
// DeleteTag.
func (l *Library) CountTagAssignments(id string) (int, error) {
	tag, err := l.tagByID(id)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, obj := range l.objects {
		if hasAssignment(obj.Metadata.Tags, tag.ID) {
			count++
		}
		for _, entry := range obj.AllEntries() {
			if hasAssignment(entry.Assignments(), tag.ID) {
				count++
			}
		}
	}
	for _, group := range l.groups {
		if hasAssignment(group.Tags, tag.ID) {
			count++
		}
	}
	return count, nil
}

// RenameTag changes a tag's name, keeping the global uniqueness constraint.
func (l *Library) RenameTag(id, name string) error {
	tag, err := l.tagByID(id)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Wrap(ErrMalformed, "rename tag", "tag name cannot be empty", nil)
	}
	for _, existing := range l.tags {
		if existing.ID != tag.ID && strings.EqualFold(existing.Name, name) {
			return Wrap(ErrDuplicate, "rename tag", fmt.Sprintf("tag named %q already exists", existing.Name), nil)
		}
	}
	tag.Name = name
	return nil
}

// AddParentTag appends a parent to a tag. The first listed parent stays the
// display path; later parents exist only in storage.
func (l *Library) AddParentTag(id, parentTarget string) error {
	tag, err := l.tagByID(id)
	if err != nil {
		return err
	}
	parent, err := l.ResolveTag(parentTarget)
	if err != nil {
		return err
	}
	if parent.ID == tag.ID {
		return Wrap(ErrMalformed, "add parent tag", fmt.Sprintf("tag %q cannot be its own parent", tag.Name), nil)
	}
	for _, existing := range tag.Parents {
		if existing == parent.ID {
			return Wrap(ErrDuplicate, "add parent tag", fmt.Sprintf("%q is already a parent of %q", parent.Name, tag.Name), nil)
		}
	}
	tag.Parents = append(tag.Parents, parent.ID)
	return nil
}

// RemoveParentTag detaches a parent from a tag.
func (l *Library) RemoveParentTag(id, parentTarget string) error {
	tag, err := l.tagByID(id)
	if err != nil {
		return err
	}
	parent, err := l.ResolveTag(parentTarget)
	if err != nil {
		return err
	}
	for i, existing := range tag.Parents {
		if existing == parent.ID {
			tag.Parents = append(tag.Parents[:i], tag.Parents[i+1:]...)
			return nil
		}
	}
	return Wrap(ErrNotFound, "remove parent tag", fmt.Sprintf("%q is not a parent of %q", parent.Name, tag.Name), nil)
}

// TagObject assigns a tag to a media object. Assigning an already-present
// tag fails.
func (l *Library) TagObject(obj *media.Object, tagID, source string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	err = obj.AddTag(media.TagAssignment{TagID: tag.ID, DateAssigned: time.Now().UTC(), Source: source})
	if errors.Is(err, media.ErrDuplicateAssignment) {
		return Wrap(ErrDuplicate, "tag object", fmt.Sprintf("%q already assigned to %s", tag.Name, obj.ShortID()), nil)
	}
	return err
}

// UntagObject strips a tag assignment from a media object.
func (l *Library) UntagObject(obj *media.Object, tagID string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	err = obj.RemoveTag(tag.ID)
	if errors.Is(err, media.ErrAssignmentNotPresent) {
		return Wrap(ErrNotFound, "untag object", fmt.Sprintf("%q not assigned to %s", tag.Name, obj.ShortID()), nil)
	}
	return err
}

// TagEntry assigns a tag to a transcript or speech-data entry.
func (l *Library) TagEntry(entry media.Entry, tagID, source string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	err = entry.AddTag(media.TagAssignment{TagID: tag.ID, DateAssigned: time.Now().UTC(), Source: source})
	if errors.Is(err, media.ErrDuplicateAssignment) {
		return Wrap(ErrDuplicate, "tag entry", fmt.Sprintf("%q already assigned to entry %s", tag.Name, entry.EntryID()), nil)
	}
	return err
}

// UntagEntry strips a tag assignment from an entry.
func (l *Library) UntagEntry(entry media.Entry, tagID string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	err = entry.RemoveTag(tag.ID)
	if errors.Is(err, media.ErrAssignmentNotPresent) {
		return Wrap(ErrNotFound, "untag entry", fmt.Sprintf("%q not assigned to entry %s", tag.Name, entry.EntryID()), nil)
	}
	return err
}

// TagGroup assigns a tag to a group.
func (l *Library) TagGroup(group *Group, tagID, source string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	if hasAssignment(group.Tags, tag.ID) {
		return Wrap(ErrDuplicate, "tag group", fmt.Sprintf("%q already assigned to group %q", tag.Name, group.Name), nil)
	}
	group.Tags = append(group.Tags, media.TagAssignment{TagID: tag.ID, DateAssigned: time.Now().UTC(), Source: source})
	return nil
}

// UntagGroup strips a tag assignment from a group.
func (l *Library) UntagGroup(group *Group, tagID string) error {
	tag, err := l.tagByID(tagID)
	if err != nil {
		return err
	}
	if !removeGroupAssignment(group, tag.ID) {
		return Wrap(ErrNotFound, "untag group", fmt.Sprintf("%q not assigned to group %q", tag.Name, group.Name), nil)
	}
	return nil
}

func (l *Library) tagByID(id string) (*Tag, error) {
	for _, tag := range l.tags {
		if tag.ID == id {
			return tag, nil
		}
	}
	return nil, Wrap(ErrNotFound, "tag lookup", fmt.Sprintf("no tag with id %q", id), nil)
}

func (l *Library) tagByName(name string) (*Tag, error) {
	for _, tag := range l.tags {
		if strings.EqualFold(tag.Name, name) {
			return tag, nil
		}
	}
	return nil, Wrap(ErrNotFound, "tag lookup", fmt.Sprintf("no tag named %q", name), nil)
}

func leafName(target string) string {
	if i := strings.LastIndex(target, "/"); i >= 0 {
		return target[i+1:]
	}
	return target
}

func enumerateTags(l *Library, tags []*Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		qualified, err := l.TagName(tag.ID, true)
		if err != nil {
			qualified = tag.Name
		}
		prefix := tag.ID
		if len(prefix) > tagPrefixMin {
			prefix = prefix[:tagPrefixMin]
		}
		names = append(names, fmt.Sprintf("%s (%s)", qualified, prefix))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func hasAssignment(assignments []media.TagAssignment, tagID string) bool {
	for _, assignment := range assignments {
		if assignment.TagID == tagID {
			return true
		}
	}
	return false
}

func removeGroupAssignment(group *Group, tagID string) bool {
	for i, assignment := range group.Tags {
		if assignment.TagID == tagID {
			group.Tags = append(group.Tags[:i], group.Tags[i+1:]...)
			return true
		}
	}
	return false
}
