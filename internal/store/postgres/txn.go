package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rolodexd/rolodexd/internal/db"
	"github.com/rolodexd/rolodexd/internal/store"
)

// contactColumns maps field keys to contacts table columns writable through
// mutations.
var contactColumns = map[string]string{
	store.ColDisplayName:     "display_name",
	store.ColStarred:         "starred",
	store.ColRingtone:        "ringtone",
	store.ColSendToVoicemail: "send_to_voicemail",
	store.ColThumbnail:       "thumbnail",
	store.ColPartitionID:     "partition_id",
}

// ExecuteTransaction applies ops atomically in one database transaction.
// BackRefs point at inserts earlier in the same ops slice; their assigned
// ids become the contact_id of the referencing row.
func (s *Store) ExecuteTransaction(ctx context.Context, ops []store.Mutation) ([]store.Result, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, store.WrapErr("begin", err)
	}
	defer tx.Rollback(ctx)

	results := make([]store.Result, len(ops))
	for i, op := range ops {
		fields := op.Fields
		if op.BackRef != nil {
			ref := *op.BackRef
			if ref < 0 || ref >= i || results[ref].DataID == "" {
				return nil, store.WrapErr("execute", fmt.Errorf("unresolved back reference %d at op %d", ref, i))
			}
			fields = fields.Clone()
			fields[store.FieldContactID] = results[ref].DataID
		}
		res, err := s.apply(ctx, tx, op, fields)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, store.WrapErr("commit", err)
	}
	return results, nil
}

func (s *Store) apply(ctx context.Context, tx pgx.Tx, op store.Mutation, fields store.Fields) (store.Result, error) {
	switch op.Op {
	case store.OpInsert:
		return s.insert(ctx, tx, op.Kind, fields)
	case store.OpUpdate:
		return store.Result{}, s.update(ctx, tx, op.Kind, op.DataID, fields)
	case store.OpDelete:
		return store.Result{}, s.delete(ctx, tx, op)
	default:
		return store.Result{}, store.WrapErr("execute", fmt.Errorf("unknown op %q", op.Op))
	}
}

type colVal struct {
	col string
	val any
}

func (s *Store) insert(ctx context.Context, tx pgx.Tx, kind store.RecordKind, fields store.Fields) (store.Result, error) {
	switch kind {
	case store.KindContact:
		return insertDynamic(ctx, tx, "contacts", contactFieldArgs(fields))
	case store.KindGroup:
		return insertDynamic(ctx, tx, "groups", []colVal{
			{"partition_id", fields.String(store.ColPartitionID)},
			{"name", fields.String(store.FieldName)},
		})
	case store.KindGroupMembership:
		return insertDynamic(ctx, tx, "group_members", []colVal{
			{"group_id", fields.String(store.FieldGroupID)},
			{"contact_id", fields.String(store.FieldContactID)},
			{"partition_id", fields.String(store.ColPartitionID)},
		})
	default:
		contactID, err := db.ParseUUID(fields.String(store.FieldContactID))
		if err != nil {
			return store.Result{}, fmt.Errorf("insert %s: %w", kind, store.ErrNotFound)
		}
		partitionID := fields.String(store.ColPartitionID)
		payload, err := json.Marshal(dataPayload(fields))
		if err != nil {
			return store.Result{}, store.WrapErr("encode fields", err)
		}
		var id string
		err = tx.QueryRow(ctx,
			`INSERT INTO contact_data (contact_id, partition_id, kind, fields) VALUES ($1, $2, $3, $4) RETURNING id`,
			contactID, partitionID, string(kind), payload,
		).Scan(&id)
		if err != nil {
			return store.Result{}, store.WrapErr("insert data", err)
		}
		return store.Result{DataID: id}, nil
	}
}

func (s *Store) update(ctx context.Context, tx pgx.Tx, kind store.RecordKind, dataID string, fields store.Fields) error {
	rowID, err := db.ParseUUID(dataID)
	if err != nil {
		return store.ErrNotFound
	}
	switch kind {
	case store.KindContact:
		set := "updated_at = now()"
		args := []any{rowID}
		for key, col := range contactColumns {
			v, ok := fields[key]
			if !ok {
				continue
			}
			args = append(args, v)
			set += fmt.Sprintf(", %s = $%d", col, len(args))
		}
		tag, err := tx.Exec(ctx, `UPDATE contacts SET `+set+` WHERE id = $1`, args...)
		if err != nil {
			return store.WrapErr("update contact", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	case store.KindGroup:
		tag, err := tx.Exec(ctx,
			`UPDATE groups SET name = $2 WHERE id = $1`,
			rowID, fields.String(store.FieldName),
		)
		if err != nil {
			return store.WrapErr("update group", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	default:
		// Merge the new fields over the stored bag so partial updates keep
		// untouched keys.
		payload, err := json.Marshal(dataPayload(fields))
		if err != nil {
			return store.WrapErr("encode fields", err)
		}
		touch := `UPDATE contact_data SET fields = fields || $2 WHERE id = $1`
		tag, err := tx.Exec(ctx, touch, rowID, payload)
		if err != nil {
			return store.WrapErr("update data", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	}
}

func (s *Store) delete(ctx context.Context, tx pgx.Tx, op store.Mutation) error {
	ids := op.SelectionIDs
	if op.DataID != "" {
		ids = append([]string{op.DataID}, ids...)
	}
	if len(ids) == 0 {
		return nil
	}
	table := "contact_data"
	switch op.Kind {
	case store.KindContact:
		table = "contacts"
	case store.KindGroup:
		table = "groups"
	case store.KindGroupMembership:
		table = "group_members"
	}
	selection, err := uuidArgs(ids)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, table), selection)
	return store.WrapErr("delete", err)
}

func insertDynamic(ctx context.Context, tx pgx.Tx, table string, pairs []colVal) (store.Result, error) {
	cols := ""
	vals := ""
	args := make([]any, 0, len(pairs))
	for _, p := range pairs {
		if len(args) > 0 {
			cols += ", "
			vals += ", "
		}
		args = append(args, p.val)
		cols += p.col
		vals += fmt.Sprintf("$%d", len(args))
	}
	var id string
	err := tx.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`, table, cols, vals),
		args...,
	).Scan(&id)
	if db.IsUniqueViolation(err) {
		return store.Result{}, fmt.Errorf("insert %s: duplicate row: %w", table, store.ErrPrecondition)
	}
	if err != nil {
		return store.Result{}, store.WrapErr("insert "+table, err)
	}
	return store.Result{DataID: id}, nil
}

func contactFieldArgs(fields store.Fields) []colVal {
	var pairs []colVal
	for key, col := range contactColumns {
		if v, ok := fields[key]; ok {
			pairs = append(pairs, colVal{col, v})
		}
	}
	return pairs
}

// dataPayload strips the extracted columns from the field bag before jsonb
// encoding.
func dataPayload(fields store.Fields) store.Fields {
	out := fields.Clone()
	delete(out, store.FieldContactID)
	delete(out, store.ColPartitionID)
	return out
}
