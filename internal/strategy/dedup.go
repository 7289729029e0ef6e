package strategy

import "TrendSentry/internal/model"

// orderedSet accumulates findings with first-seen-wins deduplication,
// keyed by symbol plus message text. Insertion order is preserved.
type orderedSet struct {
	seen  map[string]struct{}
	items []model.Finding
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(f model.Finding) {
	key := f.Symbol + "\x00" + f.Text
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, f)
}
