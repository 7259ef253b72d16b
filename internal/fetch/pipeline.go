// Package fetch queries the contact store and assembles partial results into
// canonical contacts.
package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/projection"
	"github.com/rolodexd/rolodexd/internal/store"
)

// DefaultWorkers bounds concurrent per-kind sub-queries within one fetch.
// This pool is distinct from the top-level dispatch pool so that many
// concurrent fetches cannot fan out without bound.
const DefaultWorkers = 4

// Pipeline fetches and assembles contacts.
type Pipeline struct {
	store   store.Store
	logger  *slog.Logger
	workers int
}

// NewPipeline creates a pipeline over st. workers <= 0 selects the default.
func NewPipeline(log *slog.Logger, st store.Store, workers int) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		store:   st,
		logger:  log.With(slog.String("component", "fetch")),
		workers: workers,
	}
}

// Fetch returns one contact with the requested properties populated, or
// store.ErrNotFound. A non-empty partitionID scopes the fetch to that
// account's records; empty sees all partitions. The returned contact's
// metadata records exactly the property kinds that were requested and
// supported, so a later update knows which lists are authoritative.
func (p *Pipeline) Fetch(ctx context.Context, id string, props model.PropertySet, partitionID string) (*model.Contact, error) {
	proj := projection.Build(props, p.store.Capabilities())

	rows, err := p.store.Query(ctx, store.Query{
		Kind:        store.KindContact,
		ContactIDs:  []string{id},
		PartitionID: partitionID,
		Columns:     proj.Columns,
	})
	if err != nil {
		return nil, store.WrapErr("query contact", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	contact := scalarContact(rows[0])

	partials, err := p.queryKinds(ctx, proj.Kinds, []string{id}, partitionID)
	if err != nil {
		return nil, err
	}
	for _, part := range partials {
		contact.Absorb(part)
	}

	if proj.FullPhoto {
		if err := p.loadFullPhoto(ctx, &contact); err != nil {
			return nil, err
		}
	}

	contact.Metadata.Properties = proj.Requested
	return &contact, nil
}

// FetchAll returns every contact with the requested properties populated,
// ordered by display name. A non-empty partitionID restricts the listing to
// that account. A contact disappearing between the contact-level query and a
// detail query simply yields a contact with fewer rows; a detail row whose
// contact vanished is dropped.
func (p *Pipeline) FetchAll(ctx context.Context, props model.PropertySet, partitionID string) ([]model.Contact, error) {
	proj := projection.Build(props, p.store.Capabilities())

	rows, err := p.store.Query(ctx, store.Query{
		Kind:        store.KindContact,
		PartitionID: partitionID,
		Columns:     proj.Columns,
	})
	if err != nil {
		return nil, store.WrapErr("query contacts", err)
	}
	byID := make(map[string]*model.Contact, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		c := scalarContact(row)
		byID[c.ID] = &c
		order = append(order, c.ID)
	}

	partials, err := p.queryKinds(ctx, proj.Kinds, nil, partitionID)
	if err != nil {
		return nil, err
	}
	for _, part := range partials {
		if c, ok := byID[part.ID]; ok {
			c.Absorb(part)
		}
	}

	out := make([]model.Contact, 0, len(order))
	for _, id := range order {
		c := byID[id]
		if proj.FullPhoto {
			if err := p.loadFullPhoto(ctx, c); err != nil {
				return nil, err
			}
		}
		c.Metadata.Properties = proj.Requested.Clone()
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

// queryKinds issues one query per record kind, fanned out through the
// bounded worker pool, and returns the decoded partial contacts. Merging
// stays sequential in the caller so no shared contact state is touched
// concurrently.
func (p *Pipeline) queryKinds(ctx context.Context, kinds []store.RecordKind, contactIDs []string, partitionID string) ([]model.Contact, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	perKind := make([][]model.Contact, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, kind := range kinds {
		g.Go(func() error {
			rows, err := p.store.Query(gctx, store.Query{Kind: kind, ContactIDs: contactIDs, PartitionID: partitionID})
			if err != nil {
				return store.WrapErr("query "+string(kind), err)
			}
			partials := make([]model.Contact, 0, len(rows))
			for _, row := range rows {
				partials = append(partials, dataPartial(row))
			}
			perKind[i] = partials
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []model.Contact
	for _, partials := range perKind {
		out = append(out, partials...)
	}
	return out, nil
}

// loadFullPhoto streams the full-resolution photo. This is the single most
// expensive operation in the pipeline and only runs when requested. A
// missing photo is not an error.
func (p *Pipeline) loadFullPhoto(ctx context.Context, c *model.Contact) error {
	reader, err := p.store.OpenBlob(ctx, store.BlobRef{ContactID: c.ID, FullSize: true})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return store.WrapErr("open photo blob", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return store.WrapErr("read photo blob", err)
	}
	if len(data) == 0 {
		return nil
	}
	if c.Photo == nil {
		c.Photo = &model.Photo{}
	}
	c.Photo.FullSize = data
	return nil
}
