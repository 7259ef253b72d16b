// Package contacts exposes the public contact operations: fetch, create,
// update, and delete against the external contact store, built on the
// projection, reconciliation, and batching primitives.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/dispatch"
	"github.com/rolodexd/rolodexd/internal/fetch"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/partition"
	"github.com/rolodexd/rolodexd/internal/store"
)

// Precondition failures, all detected before any store mutation.
var (
	// ErrNoSnapshot means an update was attempted on a contact that was
	// never fetched with its populated-property metadata.
	ErrNoSnapshot = fmt.Errorf("%w: update requires a contact fetched with properties metadata", store.ErrPrecondition)
	// ErrMixedBatch means a batch update mixed contacts fetched with
	// different property sets.
	ErrMixedBatch = fmt.Errorf("%w: batch updates require a uniform property set", store.ErrPrecondition)
	// ErrAlreadySaved means a create was attempted with a contact that
	// already carries store identifiers.
	ErrAlreadySaved = fmt.Errorf("%w: create requires a contact without store identifiers", store.ErrPrecondition)
)

// ErrNotFound mirrors the store boundary sentinel for callers of this
// package.
var ErrNotFound = store.ErrNotFound

// Service implements the contact operations. Each public operation runs on
// the bounded dispatch pool, off the caller's goroutine; the service holds no
// contact state across calls.
type Service struct {
	store    store.Store
	pipeline *fetch.Pipeline
	executor *batch.Executor
	pool     *dispatch.Pool
	policy   partition.Policy
	logger   *slog.Logger
}

// NewService wires the contact service.
func NewService(
	log *slog.Logger,
	st store.Store,
	pipeline *fetch.Pipeline,
	executor *batch.Executor,
	pool *dispatch.Pool,
	policy partition.Policy,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    st,
		pipeline: pipeline,
		executor: executor,
		pool:     pool,
		policy:   policy,
		logger:   log.With(slog.String("service", "contacts")),
	}
}

// FetchContact returns one contact with the requested properties populated.
// A non-empty partitionID scopes the fetch to that account's records.
func (s *Service) FetchContact(ctx context.Context, id string, props model.PropertySet, partitionID string) (*model.Contact, error) {
	return dispatch.Run(ctx, s.pool, func() (*model.Contact, error) {
		return s.pipeline.Fetch(ctx, id, props, partitionID)
	})
}

// FetchAllContacts returns every contact with the requested properties
// populated, ordered by display name.
func (s *Service) FetchAllContacts(ctx context.Context, props model.PropertySet, partitionID string) ([]model.Contact, error) {
	return dispatch.Run(ctx, s.pool, func() ([]model.Contact, error) {
		return s.pipeline.FetchAll(ctx, props, partitionID)
	})
}

// CreateContact inserts a brand-new contact into the partition selected by
// the explicit account or the default-account policy, and returns the stored
// contact with all identities assigned.
func (s *Service) CreateContact(ctx context.Context, c model.Contact, account *model.Partition) (*model.Contact, error) {
	return dispatch.Run(ctx, s.pool, func() (*model.Contact, error) {
		return s.create(ctx, c, account)
	})
}

func (s *Service) create(ctx context.Context, c model.Contact, account *model.Partition) (*model.Contact, error) {
	if !c.IsNew() || c.HasStoredProperties() {
		return nil, ErrAlreadySaved
	}
	partitions, err := s.store.Partitions(ctx)
	if err != nil {
		return nil, store.WrapErr("list partitions", err)
	}
	target, err := partition.ResolveTarget(account, s.policy, partitions)
	if err != nil {
		return nil, err
	}

	results, err := s.executor.Execute(ctx, createOps(c, target.ID))
	if err != nil {
		return nil, err
	}
	id := results[0].DataID
	s.logger.Info("contact created",
		slog.String("contact_id", id),
		slog.String("partition_id", target.ID),
		slog.Int("ops", len(results)),
	)
	return s.pipeline.Fetch(ctx, id, model.AllProperties(), "")
}

// UpdateContact reconciles the caller's new contact value against the
// current store state and applies the minimal mutation set. The contact must
// carry the populated-property metadata from its original fetch; property
// kinds outside that set are never touched.
func (s *Service) UpdateContact(ctx context.Context, c model.Contact) (*model.Contact, error) {
	return dispatch.Run(ctx, s.pool, func() (*model.Contact, error) {
		if err := validateSnapshot(c); err != nil {
			return nil, err
		}
		return s.update(ctx, c)
	})
}

// UpdateContacts applies a batch of updates. All contacts must have been
// fetched with the same property set; the check runs eagerly, before any
// store call, so a mixed batch fails with no partial state.
func (s *Service) UpdateContacts(ctx context.Context, batchContacts []model.Contact) ([]model.Contact, error) {
	return dispatch.Run(ctx, s.pool, func() ([]model.Contact, error) {
		for _, c := range batchContacts {
			if err := validateSnapshot(c); err != nil {
				return nil, err
			}
		}
		for i := 1; i < len(batchContacts); i++ {
			if !batchContacts[i].Metadata.Properties.Equal(batchContacts[0].Metadata.Properties) {
				return nil, ErrMixedBatch
			}
		}
		out := make([]model.Contact, 0, len(batchContacts))
		for _, c := range batchContacts {
			updated, err := s.update(ctx, c)
			if err != nil {
				return out, err
			}
			out = append(out, *updated)
		}
		return out, nil
	})
}

func validateSnapshot(c model.Contact) error {
	if c.IsNew() || c.Metadata.Properties.IsEmpty() {
		return ErrNoSnapshot
	}
	return nil
}

func (s *Service) update(ctx context.Context, c model.Contact) (*model.Contact, error) {
	old, err := s.pipeline.Fetch(ctx, c.ID, c.Metadata.Properties, "")
	if err != nil {
		return nil, err
	}

	partitions, err := s.store.Partitions(ctx)
	if err != nil {
		return nil, store.WrapErr("list partitions", err)
	}
	primary, err := partition.ResolvePrimaryForUpdate(*old, s.policy, partitions)
	if err != nil {
		return nil, err
	}

	ops := updateOps(*old, c, primary.ID)
	if c.Metadata.Properties.Has(model.KindPhoto) {
		photoOps, err := s.photoOps(ctx, *old, c, primary.ID)
		if err != nil {
			return nil, err
		}
		ops = append(ops, photoOps...)
	}
	if len(ops) > 0 {
		if _, err := s.executor.Execute(ctx, ops); err != nil {
			return nil, err
		}
		s.logger.Info("contact updated",
			slog.String("contact_id", c.ID),
			slog.String("partition_id", primary.ID),
			slog.Int("ops", len(ops)),
		)
	}
	return s.pipeline.Fetch(ctx, c.ID, c.Metadata.Properties, "")
}

// photoOps reconciles the full-resolution photo record. The photo row id is
// not part of the canonical model, so the current row is looked up here.
func (s *Service) photoOps(ctx context.Context, old, next model.Contact, partitionID string) ([]store.Mutation, error) {
	var oldData, newData []byte
	if old.Photo != nil {
		oldData = old.Photo.FullSize
	}
	if next.Photo != nil {
		newData = next.Photo.FullSize
	}
	if string(oldData) == string(newData) {
		return nil, nil
	}

	rows, err := s.store.Query(ctx, store.Query{Kind: store.KindPhoto, ContactIDs: []string{next.ID}})
	if err != nil {
		return nil, store.WrapErr("query photo", err)
	}
	var ops []store.Mutation
	switch {
	case len(newData) == 0:
		for _, row := range rows {
			ops = append(ops, store.Delete(store.KindPhoto, row.DataID))
		}
	case len(rows) > 0:
		ops = append(ops, store.Update(store.KindPhoto, rows[0].DataID, photoFields(newData, partitionID)))
		for _, row := range rows[1:] {
			ops = append(ops, store.Delete(store.KindPhoto, row.DataID))
		}
	default:
		ops = append(ops, store.Insert(store.KindPhoto, withContact(photoFields(newData, partitionID), next.ID)))
	}
	return ops, nil
}

// DeleteContacts removes the given contacts and all their data records. Long
// id lists are chunked below the store's argument ceiling by the executor.
func (s *Service) DeleteContacts(ctx context.Context, ids []string) error {
	_, err := dispatch.Run(ctx, s.pool, func() (struct{}, error) {
		if len(ids) == 0 {
			return struct{}{}, nil
		}
		if _, err := s.executor.Execute(ctx, []store.Mutation{
			store.DeleteSelection(store.KindContact, ids),
		}); err != nil {
			return struct{}{}, err
		}
		s.logger.Info("contacts deleted", slog.Int("count", len(ids)))
		return struct{}{}, nil
	})
	return err
}

// Partitions lists the storage partitions available for new contacts.
func (s *Service) Partitions(ctx context.Context) ([]model.Partition, error) {
	parts, err := s.store.Partitions(ctx)
	if err != nil {
		return nil, store.WrapErr("list partitions", err)
	}
	return parts, nil
}

// IsPrecondition reports whether err is a precondition rejection.
func IsPrecondition(err error) bool {
	return errors.Is(err, store.ErrPrecondition)
}
