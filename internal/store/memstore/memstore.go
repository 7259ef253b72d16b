// Package memstore is an in-memory contact store adapter. It backs tests and
// the config-selectable "memory" backend, and honors the same transaction
// semantics as the durable adapters: a failed transaction applies nothing.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/store"
)

type record struct {
	row store.Row
	seq int
}

// Store is an in-memory store.Store implementation.
type Store struct {
	mu         sync.RWMutex
	records    map[string]record // data id -> record, contact rows included
	seq        int
	partitions []model.Partition
}

// New creates an empty store exposing the given partitions. With no
// partitions a single local partition is exposed.
func New(partitions ...model.Partition) *Store {
	if len(partitions) == 0 {
		partitions = []model.Partition{{ID: "local", Name: "Local", Type: "local"}}
	}
	return &Store{
		records:    map[string]record{},
		partitions: partitions,
	}
}

// Capabilities reports full property support and generous limits.
func (s *Store) Capabilities() store.Capabilities {
	return store.Capabilities{
		Properties:        model.AllProperties(),
		MaxTransactionOps: 500,
		MaxQueryArgs:      999,
	}
}

// Partitions lists the configured partitions.
func (s *Store) Partitions(context.Context) ([]model.Partition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Partition(nil), s.partitions...), nil
}

// Query returns matching rows in insertion order.
func (s *Store) Query(_ context.Context, q store.Query) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record
	for _, rec := range s.records {
		row := rec.row
		if row.Kind != q.Kind {
			continue
		}
		if len(q.ContactIDs) > 0 && !contains(q.ContactIDs, contactKey(row)) {
			continue
		}
		if q.PartitionID != "" && row.PartitionID != q.PartitionID {
			continue
		}
		if q.GroupID != "" && row.Fields.String(store.FieldGroupID) != q.GroupID {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	rows := make([]store.Row, 0, len(matched))
	for _, rec := range matched {
		row := rec.row
		row.Fields = project(row.Fields, q.Columns)
		rows = append(rows, row)
	}
	return rows, nil
}

// contactKey is the id a ContactIDs filter matches against: the record's own
// id for contact rows, the parent contact id for data rows.
func contactKey(row store.Row) string {
	if row.Kind == store.KindContact {
		return row.DataID
	}
	return row.ContactID
}

func project(fields store.Fields, columns []string) store.Fields {
	if len(columns) == 0 {
		return fields.Clone()
	}
	out := make(store.Fields, len(columns))
	for _, col := range columns {
		if v, ok := fields[col]; ok {
			out[col] = v
		}
	}
	return out
}

// ExecuteTransaction applies ops atomically: everything is staged against a
// copy of the record table and swapped in only when every op succeeds.
func (s *Store) ExecuteTransaction(_ context.Context, ops []store.Mutation) ([]store.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]record, len(s.records))
	for id, rec := range s.records {
		staged[id] = rec
	}
	seq := s.seq

	results := make([]store.Result, len(ops))
	for i, m := range ops {
		switch m.Op {
		case store.OpInsert:
			fields := m.Fields.Clone()
			if m.BackRef != nil {
				// Executor guarantees the reference points into this
				// transaction.
				fields[store.FieldContactID] = results[*m.BackRef].DataID
			}
			id := uuid.NewString()
			seq++
			staged[id] = record{
				row: store.Row{
					DataID:      id,
					ContactID:   fields.String(store.FieldContactID),
					PartitionID: fields.String(store.ColPartitionID),
					Kind:        m.Kind,
					Fields:      fields,
				},
				seq: seq,
			}
			results[i] = store.Result{DataID: id}

		case store.OpUpdate:
			rec, ok := staged[m.DataID]
			if !ok {
				return nil, store.ErrNotFound
			}
			fields := rec.row.Fields.Clone()
			for k, v := range m.Fields {
				fields[k] = v
			}
			rec.row.Fields = fields
			staged[m.DataID] = rec

		case store.OpDelete:
			targets := m.SelectionIDs
			if m.DataID != "" {
				targets = append([]string{m.DataID}, targets...)
			}
			for _, id := range targets {
				deleteCascade(staged, id)
			}
		}
	}

	s.records = staged
	s.seq = seq
	return results, nil
}

// deleteCascade removes a record; removing a contact removes its data rows
// and group memberships, removing a group removes its memberships.
func deleteCascade(staged map[string]record, id string) {
	rec, ok := staged[id]
	if !ok {
		return
	}
	delete(staged, id)
	switch rec.row.Kind {
	case store.KindContact:
		for childID, child := range staged {
			if child.row.ContactID == id {
				delete(staged, childID)
			}
		}
	case store.KindGroup:
		for childID, child := range staged {
			if child.row.Kind == store.KindGroupMembership &&
				child.row.Fields.String(store.FieldGroupID) == id {
				delete(staged, childID)
			}
		}
	}
}

// OpenBlob streams photo bytes: the full-size tier from the photo data row,
// the thumbnail tier from the contact row's scalar column.
func (s *Store) OpenBlob(_ context.Context, ref store.BlobRef) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !ref.FullSize {
		rec, ok := s.records[ref.ContactID]
		if !ok {
			return nil, store.ErrNotFound
		}
		thumb := rec.row.Fields.Bytes(store.ColThumbnail)
		if len(thumb) == 0 {
			return nil, store.ErrNotFound
		}
		return io.NopCloser(bytes.NewReader(thumb)), nil
	}
	for _, rec := range s.records {
		if rec.row.Kind == store.KindPhoto && rec.row.ContactID == ref.ContactID {
			data := rec.row.Fields.Bytes(store.FieldPhoto)
			if len(data) == 0 {
				break
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}
	return nil, store.ErrNotFound
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
