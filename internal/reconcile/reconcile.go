// Package reconcile computes field-level mutations from an old and a new
// version of a property list, matched by store-assigned stable identity.
// This is set reconciliation by key, not positional diffing: reordering a
// list without changing identities produces zero mutations.
package reconcile

import (
	"reflect"

	"github.com/rolodexd/rolodexd/internal/store"
)

// Keyed exposes the store-assigned stable identity of a property value.
// An empty identity means the value has never been stored.
type Keyed interface {
	StableID() string
}

// Changes is the outcome of one reconciliation. A value appears in exactly
// one list.
type Changes[V Keyed] struct {
	Inserts []V
	Updates []V
	Deletes []V
}

// IsEmpty reports whether the reconciliation produced no work.
func (c Changes[V]) IsEmpty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

// Diff reconciles oldList with newList by stable identity.
//
// Every old identity missing from newList becomes a delete; every identity
// present in both with a changed value becomes an update carrying the new
// value; every id-less new value becomes an insert. An identity whose value
// is unchanged produces nothing, so diffing a list against itself, or
// against a reordering of itself, is empty. Two id-less new values that look
// identical to an old one are NOT deduplicated: caller-explicit intent wins
// over fuzzy matching, so both insert. That policy is deliberate.
func Diff[V Keyed](oldList, newList []V) Changes[V] {
	newByID := make(map[string]V, len(newList))
	for _, item := range newList {
		if id := item.StableID(); id != "" {
			newByID[id] = item
		}
	}

	var out Changes[V]
	seen := make(map[string]struct{}, len(oldList))
	for _, oldItem := range oldList {
		id := oldItem.StableID()
		if id == "" {
			// A fetched snapshot should never contain id-less values; if it
			// does there is nothing in the store to target, so skip.
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if newItem, ok := newByID[id]; ok {
			if !reflect.DeepEqual(oldItem, newItem) {
				out.Updates = append(out.Updates, newItem)
			}
		} else {
			out.Deletes = append(out.Deletes, oldItem)
		}
	}
	for _, item := range newList {
		if item.StableID() == "" {
			out.Inserts = append(out.Inserts, item)
		}
	}
	return out
}

// Mutations translates Changes into store operations using the three
// type-specific builders. The builders own field encoding; this function owns
// only the shape of the translation, so every property list shares it.
func Mutations[V Keyed](
	c Changes[V],
	insert func(V) store.Mutation,
	update func(V) store.Mutation,
	del func(V) store.Mutation,
) []store.Mutation {
	ops := make([]store.Mutation, 0, len(c.Deletes)+len(c.Updates)+len(c.Inserts))
	for _, item := range c.Deletes {
		ops = append(ops, del(item))
	}
	for _, item := range c.Updates {
		ops = append(ops, update(item))
	}
	for _, item := range c.Inserts {
		ops = append(ops, insert(item))
	}
	return ops
}

// Replace expresses the replace-only variant used for the name property,
// which spans store record kinds that do not carry independent identities in
// the canonical model: delete everything old, reinsert everything new.
func Replace[V Keyed](oldList, newList []V) Changes[V] {
	var out Changes[V]
	for _, item := range oldList {
		if item.StableID() != "" {
			out.Deletes = append(out.Deletes, item)
		}
	}
	out.Inserts = append(out.Inserts, newList...)
	return out
}
