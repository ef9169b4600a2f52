package state

import "sort"

// Selection tracks the records chosen for batch deletion. Members are always
// ids of the last loaded snapshot; anything else is ignored.
//
// Selection is not safe for concurrent use.
type Selection struct {
	known    map[int64]struct{}
	selected map[int64]struct{}
}

func NewSelection() *Selection {
	return &Selection{
		known:    make(map[int64]struct{}),
		selected: make(map[int64]struct{}),
	}
}

// Reset replaces the snapshot ids and drops selected ids that are gone.
func (s *Selection) Reset(known []int64) {
	s.known = make(map[int64]struct{}, len(known))
	for _, id := range known {
		if id > 0 {
			s.known[id] = struct{}{}
		}
	}
	for id := range s.selected {
		if _, ok := s.known[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Toggle flips the membership of id and reports whether it is now selected.
// Unknown and non-positive ids are left alone.
func (s *Selection) Toggle(id int64) bool {
	if _, ok := s.known[id]; !ok || id <= 0 {
		return false
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// SelectAll selects every known id, or clears the selection when every
// known id is already selected.
func (s *Selection) SelectAll() {
	if len(s.known) > 0 && len(s.selected) == len(s.known) {
		s.Clear()
		return
	}
	for id := range s.known {
		s.selected[id] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.selected = make(map[int64]struct{})
}

func (s *Selection) Contains(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.selected)
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
