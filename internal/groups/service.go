// Package groups manages contact groups and group membership, reusing the
// reconciliation and batching primitives of the contact core.
package groups

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/dispatch"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/partition"
	"github.com/rolodexd/rolodexd/internal/reconcile"
	"github.com/rolodexd/rolodexd/internal/store"
)

// ErrEmptyName rejects groups without a name.
var ErrEmptyName = fmt.Errorf("%w: group name is required", store.ErrPrecondition)

// Service implements the group operations.
type Service struct {
	store    store.Store
	executor *batch.Executor
	pool     *dispatch.Pool
	policy   partition.Policy
	logger   *slog.Logger
}

// NewService wires the group service.
func NewService(log *slog.Logger, st store.Store, executor *batch.Executor, pool *dispatch.Pool, policy partition.Policy) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    st,
		executor: executor,
		pool:     pool,
		policy:   policy,
		logger:   log.With(slog.String("service", "groups")),
	}
}

// List returns the group catalog.
func (s *Service) List(ctx context.Context) ([]model.Group, error) {
	return dispatch.Run(ctx, s.pool, func() ([]model.Group, error) {
		rows, err := s.store.Query(ctx, store.Query{Kind: store.KindGroup})
		if err != nil {
			return nil, store.WrapErr("query groups", err)
		}
		out := make([]model.Group, 0, len(rows))
		for _, row := range rows {
			out = append(out, model.Group{
				ID:          row.DataID,
				Name:        row.Fields.String(store.FieldName),
				PartitionID: row.PartitionID,
			})
		}
		return out, nil
	})
}

// Create adds a group to the partition selected by the explicit account or
// the default-account policy.
func (s *Service) Create(ctx context.Context, name string, account *model.Partition) (model.Group, error) {
	return dispatch.Run(ctx, s.pool, func() (model.Group, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return model.Group{}, ErrEmptyName
		}
		partitions, err := s.store.Partitions(ctx)
		if err != nil {
			return model.Group{}, store.WrapErr("list partitions", err)
		}
		target, err := partition.ResolveTarget(account, s.policy, partitions)
		if err != nil {
			return model.Group{}, err
		}
		results, err := s.executor.Execute(ctx, []store.Mutation{
			store.Insert(store.KindGroup, store.Fields{
				store.FieldName:      name,
				store.ColPartitionID: target.ID,
			}),
		})
		if err != nil {
			return model.Group{}, err
		}
		s.logger.Info("group created", slog.String("group_id", results[0].DataID))
		return model.Group{ID: results[0].DataID, Name: name, PartitionID: target.ID}, nil
	})
}

// Update renames an existing group.
func (s *Service) Update(ctx context.Context, g model.Group) (model.Group, error) {
	return dispatch.Run(ctx, s.pool, func() (model.Group, error) {
		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" {
			return model.Group{}, ErrEmptyName
		}
		_, err := s.executor.Execute(ctx, []store.Mutation{
			store.Update(store.KindGroup, g.ID, store.Fields{store.FieldName: g.Name}),
		})
		if err != nil {
			return model.Group{}, err
		}
		return g, nil
	})
}

// Delete removes a group and its memberships. Contacts themselves are
// untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := dispatch.Run(ctx, s.pool, func() (struct{}, error) {
		_, err := s.executor.Execute(ctx, []store.Mutation{
			store.Delete(store.KindGroup, id),
		})
		return struct{}{}, err
	})
	return err
}

// membership adapts one membership row to the reconciliation engine.
type membership struct {
	dataID    string
	contactID string
}

func (m membership) StableID() string { return m.dataID }

// AddContacts adds the given contacts to a group. Membership is reconciled
// against the stored rows, so contacts that already belong produce no
// mutations and the call is idempotent.
func (s *Service) AddContacts(ctx context.Context, groupID string, contactIDs []string) error {
	_, err := dispatch.Run(ctx, s.pool, func() (struct{}, error) {
		groupRows, err := s.store.Query(ctx, store.Query{Kind: store.KindGroup, ContactIDs: nil})
		if err != nil {
			return struct{}{}, store.WrapErr("query groups", err)
		}
		if !groupExists(groupRows, groupID) {
			return struct{}{}, store.ErrNotFound
		}

		rows, err := s.store.Query(ctx, store.Query{Kind: store.KindGroupMembership, GroupID: groupID})
		if err != nil {
			return struct{}{}, store.WrapErr("query memberships", err)
		}
		existing := make([]membership, 0, len(rows))
		member := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			existing = append(existing, membership{dataID: row.DataID, contactID: row.ContactID})
			member[row.ContactID] = struct{}{}
		}

		// Desired state keeps every stored row and appends id-less entries
		// for the new contacts; the diff then reduces to pure inserts.
		desired := append([]membership(nil), existing...)
		for _, id := range contactIDs {
			if _, ok := member[id]; !ok {
				desired = append(desired, membership{contactID: id})
				member[id] = struct{}{}
			}
		}

		ops := reconcile.Mutations(reconcile.Diff(existing, desired),
			func(m membership) store.Mutation {
				return store.Insert(store.KindGroupMembership, store.Fields{
					store.FieldGroupID:   groupID,
					store.FieldContactID: m.contactID,
				})
			},
			func(m membership) store.Mutation {
				return store.Update(store.KindGroupMembership, m.dataID, store.Fields{})
			},
			func(m membership) store.Mutation {
				return store.Delete(store.KindGroupMembership, m.dataID)
			},
		)
		if len(ops) == 0 {
			return struct{}{}, nil
		}
		if _, err := s.executor.Execute(ctx, ops); err != nil {
			return struct{}{}, err
		}
		s.logger.Info("group members added",
			slog.String("group_id", groupID),
			slog.Int("added", len(ops)),
		)
		return struct{}{}, nil
	})
	return err
}

func groupExists(rows []store.Row, id string) bool {
	for _, row := range rows {
		if row.DataID == id {
			return true
		}
	}
	return false
}
