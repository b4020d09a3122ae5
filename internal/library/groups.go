package library

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog/internal/locator"
	"catalog/internal/logging"
	"catalog/internal/media"
)

// CreateGroup adds a named group to the library. Group names are not
// required unique; fetch-by-name returns the first match.
func (l *Library) CreateGroup(name, createdBy, description string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Wrap(ErrMalformed, "create group", "group name cannot be empty", nil)
	}
	group := &Group{
		ID:          locator.NewID(),
		Name:        name,
		CreatedBy:   createdBy,
		DateCreated: time.Now().UTC(),
		Description: description,
	}
	l.groups = append(l.groups, group)
	l.logger.Info("created group", logging.String("group", name))
	return group, nil
}

// AddObjectsToGroup adds objects not already present and re-sorts the
// member list chronologically by (date_recorded, date_stored). Returns how
// many objects were actually added.
func (l *Library) AddObjectsToGroup(group *Group, objects []*media.Object) int {
	present := make(map[string]bool, len(group.Objects))
	for _, obj := range group.Objects {
		present[obj.ID] = true
	}
	added := 0
	for _, obj := range objects {
		if present[obj.ID] {
			continue
		}
		present[obj.ID] = true
		group.Objects = append(group.Objects, obj)
		added++
	}
	sortGroupObjects(group)
	return added
}

// RemoveObjectsFromGroup strips the given objects from the member list.
func (l *Library) RemoveObjectsFromGroup(group *Group, objects []*media.Object) int {
	removed := 0
	for _, obj := range objects {
		before := len(group.Objects)
		group.removeObject(obj.ID)
		if len(group.Objects) < before {
			removed++
		}
	}
	return removed
}

// AddSubgroups nests groups under a parent, refusing self-nesting, repeat
// nesting, and any arrangement where the parent is already a descendant of
// the subgroup. Subgroups are kept sorted by creation date.
func (l *Library) AddSubgroups(parent *Group, subgroups ...*Group) error {
	for _, sub := range subgroups {
		if sub.ID == parent.ID {
			return Wrap(ErrCycle, "add subgroups", fmt.Sprintf("group %q cannot contain itself", parent.Name), nil)
		}
		if containsGroup(sub, parent.ID) {
			return Wrap(ErrCycle, "add subgroups",
				fmt.Sprintf("group %q is already an ancestor of %q", sub.Name, parent.Name), nil)
		}
		if directSubgroup(parent, sub.ID) {
			return Wrap(ErrDuplicate, "add subgroups",
				fmt.Sprintf("group %q is already a subgroup of %q", sub.Name, parent.Name), nil)
		}
	}
	parent.Subgroups = append(parent.Subgroups, subgroups...)
	sort.SliceStable(parent.Subgroups, func(i, j int) bool {
		return parent.Subgroups[i].DateCreated.Before(parent.Subgroups[j].DateCreated)
	})
	return nil
}

// RemoveSubgroup detaches a direct subgroup from its parent. The subgroup
// itself stays in the library.
func (l *Library) RemoveSubgroup(parent *Group, sub *Group) error {
	for i, candidate := range parent.Subgroups {
		if candidate.ID == sub.ID {
			parent.Subgroups = append(parent.Subgroups[:i], parent.Subgroups[i+1:]...)
			return nil
		}
	}
	return Wrap(ErrNotFound, "remove subgroup",
		fmt.Sprintf("group %q is not a subgroup of %q", sub.Name, parent.Name), nil)
}

// DeleteGroup removes a group from the library and detaches it from every
// parent. Member objects are untouched.
func (l *Library) DeleteGroup(group *Group) error {
	index := -1
	for i, candidate := range l.groups {
		if candidate.ID == group.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return Wrap(ErrNotFound, "delete group", fmt.Sprintf("group %q not in library", group.Name), nil)
	}
	l.groups = append(l.groups[:index], l.groups[index+1:]...)
	for _, other := range l.groups {
		for i, sub := range other.Subgroups {
			if sub.ID == group.ID {
				other.Subgroups = append(other.Subgroups[:i], other.Subgroups[i+1:]...)
				break
			}
		}
	}
	l.logger.Info("deleted group", logging.String("group", group.Name))
	return nil
}

// sortGroupObjects keeps member order chronological. Objects without a
// recorded date sort by their stored date alone.
func sortGroupObjects(group *Group) {
	sort.SliceStable(group.Objects, func(i, j int) bool {
		a, b := group.Objects[i].Metadata, group.Objects[j].Metadata
		if !a.DateRecorded.Equal(b.DateRecorded) {
			return a.DateRecorded.Before(b.DateRecorded)
		}
		return a.DateStored.Before(b.DateStored)
	})
}

// containsGroup reports whether id appears anywhere in root's subtree.
func containsGroup(root *Group, id string) bool {
	for _, sub := range root.Subgroups {
		if sub.ID == id || containsGroup(sub, id) {
			return true
		}
	}
	return false
}

func directSubgroup(parent *Group, id string) bool {
	for _, sub := range parent.Subgroups {
		if sub.ID == id {
			return true
		}
	}
	return false
}
