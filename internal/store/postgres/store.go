// Package postgres implements the contact store boundary on PostgreSQL.
// Contact scalars live in dedicated columns; per-kind data records are
// jsonb field bags in a single contact_data table.
package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolodexd/rolodexd/internal/db"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/store"
)

const (
	maxTransactionOps = 1000
	maxQueryArgs      = 999
)

// Store is a PostgreSQL-backed contact store.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store on the given connection pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: logger.With(slog.String("service", "store.postgres")),
	}
}

// Capabilities reports full property support and the transaction limits of
// this backend.
func (s *Store) Capabilities() store.Capabilities {
	props := model.NewPropertySet(model.AllKinds()...)
	return store.Capabilities{
		Properties:        props,
		MaxTransactionOps: maxTransactionOps,
		MaxQueryArgs:      maxQueryArgs,
	}
}

// Partitions lists the storage partitions known to the backend.
func (s *Store) Partitions(ctx context.Context) ([]model.Partition, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, type FROM partitions ORDER BY id`)
	if err != nil {
		return nil, store.WrapErr("partitions", err)
	}
	defer rows.Close()

	var out []model.Partition
	for rows.Next() {
		var p model.Partition
		if err := rows.Scan(&p.ID, &p.Name, &p.Type); err != nil {
			return nil, store.WrapErr("partitions", err)
		}
		out = append(out, p)
	}
	return out, store.WrapErr("partitions", rows.Err())
}

// uuidArgs validates a contact id selection before it reaches a uuid[] bind.
// A malformed id cannot match any row, so it reads as not found instead of
// surfacing a pg syntax error.
func uuidArgs(ids []string) ([]pgtype.UUID, error) {
	out := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := db.ParseUUID(id)
		if err != nil {
			return nil, store.ErrNotFound
		}
		out = append(out, parsed)
	}
	return out, nil
}

// Query returns matching rows for one record kind.
func (s *Store) Query(ctx context.Context, q store.Query) ([]store.Row, error) {
	switch q.Kind {
	case store.KindContact:
		return s.queryContacts(ctx, q)
	case store.KindGroup:
		return s.queryGroups(ctx, q)
	case store.KindGroupMembership:
		return s.queryMemberships(ctx, q)
	default:
		return s.queryData(ctx, q)
	}
}

func (s *Store) queryContacts(ctx context.Context, q store.Query) ([]store.Row, error) {
	sql := `SELECT id, partition_id, display_name, starred, ringtone, send_to_voicemail, thumbnail, updated_at FROM contacts`
	var (
		conds []string
		args  []any
	)
	if len(q.ContactIDs) > 0 {
		ids, err := uuidArgs(q.ContactIDs)
		if err != nil {
			return nil, err
		}
		args = append(args, ids)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if q.PartitionID != "" {
		args = append(args, q.PartitionID)
		conds = append(conds, fmt.Sprintf("partition_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY display_name, id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, store.WrapErr("query contacts", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var (
			id, partitionID, displayName, ringtone string
			starred, voicemail                     bool
			thumbnail                              []byte
			updatedAt                              pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &partitionID, &displayName, &starred, &ringtone, &voicemail, &thumbnail, &updatedAt); err != nil {
			return nil, store.WrapErr("query contacts", err)
		}
		fields := store.Fields{
			store.ColID:              id,
			store.ColDisplayName:     displayName,
			store.ColStarred:         starred,
			store.ColRingtone:        ringtone,
			store.ColSendToVoicemail: voicemail,
			store.ColUpdatedAt:       db.TimeFromPg(updatedAt),
		}
		if len(thumbnail) > 0 {
			fields[store.ColThumbnail] = thumbnail
		}
		out = append(out, store.Row{
			DataID:      id,
			ContactID:   id,
			PartitionID: partitionID,
			Kind:        store.KindContact,
			Fields:      project(fields, q.Columns),
		})
	}
	return out, store.WrapErr("query contacts", rows.Err())
}

func (s *Store) queryData(ctx context.Context, q store.Query) ([]store.Row, error) {
	sql := `SELECT id, contact_id, partition_id, fields FROM contact_data WHERE kind = $1`
	args := []any{string(q.Kind)}
	if len(q.ContactIDs) > 0 {
		ids, err := uuidArgs(q.ContactIDs)
		if err != nil {
			return nil, err
		}
		args = append(args, ids)
		sql += fmt.Sprintf(" AND contact_id = ANY($%d)", len(args))
	}
	if q.PartitionID != "" {
		args = append(args, q.PartitionID)
		sql += fmt.Sprintf(" AND partition_id = $%d", len(args))
	}
	sql += " ORDER BY created_at, id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, store.WrapErr("query data", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var (
			id, contactID, partitionID string
			payload                    []byte
		)
		if err := rows.Scan(&id, &contactID, &partitionID, &payload); err != nil {
			return nil, store.WrapErr("query data", err)
		}
		fields := store.Fields{}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &fields); err != nil {
				return nil, store.WrapErr("decode fields", err)
			}
		}
		fields[store.FieldContactID] = contactID
		out = append(out, store.Row{
			DataID:      id,
			ContactID:   contactID,
			PartitionID: partitionID,
			Kind:        q.Kind,
			Fields:      fields,
		})
	}
	return out, store.WrapErr("query data", rows.Err())
}

func (s *Store) queryGroups(ctx context.Context, q store.Query) ([]store.Row, error) {
	sql := `SELECT id, partition_id, name FROM groups`
	var args []any
	if q.PartitionID != "" {
		args = append(args, q.PartitionID)
		sql += " WHERE partition_id = $1"
	}
	sql += " ORDER BY name, id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, store.WrapErr("query groups", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var id, partitionID, name string
		if err := rows.Scan(&id, &partitionID, &name); err != nil {
			return nil, store.WrapErr("query groups", err)
		}
		out = append(out, store.Row{
			DataID:      id,
			PartitionID: partitionID,
			Kind:        store.KindGroup,
			Fields: store.Fields{
				store.FieldName:      name,
				store.ColPartitionID: partitionID,
			},
		})
	}
	return out, store.WrapErr("query groups", rows.Err())
}

func (s *Store) queryMemberships(ctx context.Context, q store.Query) ([]store.Row, error) {
	sql := `SELECT id, group_id, contact_id, partition_id FROM group_members`
	var (
		conds []string
		args  []any
	)
	if q.GroupID != "" {
		args = append(args, q.GroupID)
		conds = append(conds, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if len(q.ContactIDs) > 0 {
		ids, err := uuidArgs(q.ContactIDs)
		if err != nil {
			return nil, err
		}
		args = append(args, ids)
		conds = append(conds, fmt.Sprintf("contact_id = ANY($%d)", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, store.WrapErr("query memberships", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var id, groupID, contactID, partitionID string
		if err := rows.Scan(&id, &groupID, &contactID, &partitionID); err != nil {
			return nil, store.WrapErr("query memberships", err)
		}
		out = append(out, store.Row{
			DataID:      id,
			ContactID:   contactID,
			PartitionID: partitionID,
			Kind:        store.KindGroupMembership,
			Fields: store.Fields{
				store.FieldGroupID:   groupID,
				store.FieldContactID: contactID,
			},
		})
	}
	return out, store.WrapErr("query memberships", rows.Err())
}

func project(fields store.Fields, columns []string) store.Fields {
	if len(columns) == 0 {
		return fields
	}
	out := store.Fields{}
	for _, c := range columns {
		if v, ok := fields[c]; ok {
			out[c] = v
		}
	}
	return out
}

// OpenBlob streams photo bytes at the requested tier.
func (s *Store) OpenBlob(ctx context.Context, ref store.BlobRef) (io.ReadCloser, error) {
	contactID, err := db.ParseUUID(ref.ContactID)
	if err != nil {
		return nil, store.ErrNotFound
	}
	if ref.FullSize {
		var payload []byte
		err := s.pool.QueryRow(ctx,
			`SELECT fields FROM contact_data WHERE contact_id = $1 AND kind = $2 LIMIT 1`,
			contactID, string(store.KindPhoto),
		).Scan(&payload)
		if err == pgx.ErrNoRows {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, store.WrapErr("open blob", err)
		}
		fields := store.Fields{}
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, store.WrapErr("decode photo", err)
		}
		data := fields.Bytes(store.FieldPhoto)
		if len(data) == 0 {
			return nil, store.ErrNotFound
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	var thumbnail []byte
	err = s.pool.QueryRow(ctx,
		`SELECT thumbnail FROM contacts WHERE id = $1`, contactID,
	).Scan(&thumbnail)
	if err == pgx.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.WrapErr("open blob", err)
	}
	if len(thumbnail) == 0 {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(thumbnail)), nil
}
