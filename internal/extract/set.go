package extract

import "sort"

// AddressSet is a set of email addresses. The zero value is not usable; use
// NewAddressSet.
type AddressSet struct {
	items map[string]struct{}
}

// NewAddressSet returns a set holding addrs.
func NewAddressSet(addrs ...string) *AddressSet {
	s := &AddressSet{items: make(map[string]struct{}, len(addrs))}
	s.Add(addrs...)
	return s
}

// Add inserts addrs, ignoring ones already present.
func (s *AddressSet) Add(addrs ...string) {
	for _, a := range addrs {
		s.items[a] = struct{}{}
	}
}

// Merge adds every address of other.
func (s *AddressSet) Merge(other *AddressSet) {
	for a := range other.items {
		s.items[a] = struct{}{}
	}
}

// Contains reports whether addr is in the set.
func (s *AddressSet) Contains(addr string) bool {
	_, ok := s.items[addr]
	return ok
}

// Len returns the number of addresses.
func (s *AddressSet) Len() int {
	return len(s.items)
}

// Sorted returns the addresses in lexicographic order.
func (s *AddressSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for a := range s.items {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
