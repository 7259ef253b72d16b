package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PropertyKind names one logical contact property group.
type PropertyKind string

const (
	KindName         PropertyKind = "name"
	KindPhone        PropertyKind = "phone"
	KindEmail        PropertyKind = "email"
	KindAddress      PropertyKind = "address"
	KindOrganization PropertyKind = "organization"
	KindWebsite      PropertyKind = "website"
	KindSocialMedia  PropertyKind = "socialMedia"
	KindEvent        PropertyKind = "event"
	KindRelation     PropertyKind = "relation"
	KindNote         PropertyKind = "note"
	KindThumbnail    PropertyKind = "thumbnail"
	KindPhoto        PropertyKind = "photo"
)

// AllKinds lists every property kind in stable order.
func AllKinds() []PropertyKind {
	return []PropertyKind{
		KindName, KindPhone, KindEmail, KindAddress, KindOrganization,
		KindWebsite, KindSocialMedia, KindEvent, KindRelation, KindNote,
		KindThumbnail, KindPhoto,
	}
}

// ParseKind validates a property kind string.
func ParseKind(s string) (PropertyKind, error) {
	kind := PropertyKind(strings.TrimSpace(s))
	for _, known := range AllKinds() {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown property kind: %q", s)
}

// PropertySet is a set of property kinds. The zero value is the empty set.
type PropertySet struct {
	kinds map[PropertyKind]struct{}
}

// NewPropertySet builds a set from the given kinds.
func NewPropertySet(kinds ...PropertyKind) PropertySet {
	var s PropertySet
	for _, k := range kinds {
		s.Add(k)
	}
	return s
}

// AllProperties returns the set containing every property kind.
func AllProperties() PropertySet {
	return NewPropertySet(AllKinds()...)
}

// Has reports whether kind is in the set.
func (s PropertySet) Has(kind PropertyKind) bool {
	_, ok := s.kinds[kind]
	return ok
}

// Add inserts kind into the set.
func (s *PropertySet) Add(kind PropertyKind) {
	if s.kinds == nil {
		s.kinds = map[PropertyKind]struct{}{}
	}
	s.kinds[kind] = struct{}{}
}

// Union merges other into the set. Populated-property sets only ever grow
// across partial-fetch merges.
func (s *PropertySet) Union(other PropertySet) {
	for k := range other.kinds {
		s.Add(k)
	}
}

// Len returns the number of kinds in the set.
func (s PropertySet) Len() int { return len(s.kinds) }

// IsEmpty reports whether the set has no kinds.
func (s PropertySet) IsEmpty() bool { return len(s.kinds) == 0 }

// Clone returns an independent copy of the set.
func (s PropertySet) Clone() PropertySet {
	out := NewPropertySet()
	out.Union(s)
	return out
}

// Equal reports whether both sets contain the same kinds.
func (s PropertySet) Equal(other PropertySet) bool {
	if len(s.kinds) != len(other.kinds) {
		return false
	}
	for k := range s.kinds {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Kinds returns the set's members in stable order.
func (s PropertySet) Kinds() []PropertyKind {
	out := make([]PropertyKind, 0, len(s.kinds))
	for k := range s.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted string array.
func (s PropertySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Kinds())
}

// UnmarshalJSON decodes a string array into the set.
func (s *PropertySet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = PropertySet{}
	for _, item := range raw {
		kind, err := ParseKind(item)
		if err != nil {
			return err
		}
		s.Add(kind)
	}
	return nil
}
