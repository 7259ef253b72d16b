// Package batch executes mutation lists against the contact store in
// size-bounded, partially-recoverable transaction chunks.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rolodexd/rolodexd/internal/store"
)

// Defaults. ChunkSize sits well below typical store transaction ceilings to
// leave headroom for the store's own bookkeeping operations; ArgLimit tracks
// the store's query-argument limit and applies to selection lists, which are
// chunked independently of mutation chunking.
const (
	DefaultChunkSize  = 200
	DefaultYieldEvery = 100
	DefaultArgLimit   = 900
)

// Options tunes the executor.
type Options struct {
	ChunkSize  int
	YieldEvery int
	ArgLimit   int
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.YieldEvery <= 0 {
		o.YieldEvery = DefaultYieldEvery
	}
	if o.ArgLimit <= 0 {
		o.ArgLimit = DefaultArgLimit
	}
	return o
}

// PartialError reports a batch that failed mid-way: chunks 1..FailedChunk-1
// committed and stay committed, chunk FailedChunk aborted, and later chunks
// were never submitted. The caller decides whether to retry the remainder;
// the executor never retries, since retrying a partially-applied batch risks
// duplicate inserts.
type PartialError struct {
	FailedChunk int // 1-based index of the first failed chunk
	TotalChunks int
	Committed   int // mutations committed before the failure
	Err         error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("batch: chunk %d of %d failed after %d committed mutations: %v",
		e.FailedChunk, e.TotalChunks, e.Committed, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Executor applies mutation batches to one store.
type Executor struct {
	store  store.Store
	logger *slog.Logger
	opts   Options
}

// NewExecutor creates an executor bound to st.
func NewExecutor(log *slog.Logger, st store.Store, opts Options) *Executor {
	if log == nil {
		log = slog.Default()
	}
	opts = opts.withDefaults()
	if max := st.Capabilities().MaxTransactionOps; max > 0 && max < opts.ChunkSize {
		opts.ChunkSize = max
	}
	if max := st.Capabilities().MaxQueryArgs; max > 0 && max < opts.ArgLimit {
		opts.ArgLimit = max
	}
	return &Executor{
		store:  st,
		logger: log.With(slog.String("component", "batch")),
		opts:   opts,
	}
}

// Execute partitions ops into chunks of at most ChunkSize, marks every
// YieldEvery-th operation within a chunk as a cooperative yield point, and
// runs each chunk as one sequential store transaction. Chunks are never
// parallelized: the store serializes transactions internally, so parallelism
// would only complicate the partial-failure contract.
//
// Inserts whose BackRef points at an insert in an earlier chunk get the real
// assigned id patched into their contact_id field before submission; BackRefs
// within one chunk are rewritten to chunk-relative indices for the adapter.
//
// On failure the committed prefix of results is returned together with a
// *PartialError.
func (e *Executor) Execute(ctx context.Context, ops []store.Mutation) ([]store.Result, error) {
	ops = e.expandSelections(ops)
	if len(ops) == 0 {
		return nil, nil
	}

	chunks := chunk(ops, e.opts.ChunkSize)
	results := make([]store.Result, 0, len(ops))
	for i, c := range chunks {
		submit := make([]store.Mutation, len(c))
		chunkStart := i * e.opts.ChunkSize
		for j, m := range c {
			if m.BackRef != nil {
				ref := *m.BackRef
				if ref < chunkStart {
					m.Fields = m.Fields.Clone()
					m.Fields[store.FieldContactID] = results[ref].DataID
					m.BackRef = nil
				} else {
					rel := ref - chunkStart
					m.BackRef = &rel
				}
			}
			if (j+1)%e.opts.YieldEvery == 0 {
				m.Yield = true
			}
			submit[j] = m
		}

		chunkResults, err := e.store.ExecuteTransaction(ctx, submit)
		if err != nil {
			e.logger.Error("chunk failed",
				slog.Int("chunk", i+1),
				slog.Int("chunks", len(chunks)),
				slog.Int("committed", len(results)),
				slog.Any("error", err),
			)
			return results, &PartialError{
				FailedChunk: i + 1,
				TotalChunks: len(chunks),
				Committed:   len(results),
				Err:         err,
			}
		}
		results = append(results, chunkResults...)
	}
	e.logger.Debug("batch committed",
		slog.Int("ops", len(ops)),
		slog.Int("chunks", len(chunks)),
	)
	return results, nil
}

// expandSelections splits selection lists longer than ArgLimit into multiple
// mutations and remaps BackRef indices to the expanded positions.
func (e *Executor) expandSelections(ops []store.Mutation) []store.Mutation {
	needsExpansion := false
	for _, m := range ops {
		if len(m.SelectionIDs) > e.opts.ArgLimit {
			needsExpansion = true
			break
		}
	}
	if !needsExpansion {
		return ops
	}

	out := make([]store.Mutation, 0, len(ops))
	remap := make([]int, len(ops))
	for i, m := range ops {
		remap[i] = len(out)
		if len(m.SelectionIDs) <= e.opts.ArgLimit {
			out = append(out, m)
			continue
		}
		ids := m.SelectionIDs
		for len(ids) > 0 {
			n := min(len(ids), e.opts.ArgLimit)
			part := m
			part.SelectionIDs = ids[:n]
			out = append(out, part)
			ids = ids[n:]
		}
	}
	for i := range out {
		if out[i].BackRef != nil {
			mapped := remap[*out[i].BackRef]
			out[i].BackRef = &mapped
		}
	}
	return out
}

func chunk(ops []store.Mutation, size int) [][]store.Mutation {
	chunks := make([][]store.Mutation, 0, (len(ops)+size-1)/size)
	for len(ops) > 0 {
		n := min(len(ops), size)
		chunks = append(chunks, ops[:n])
		ops = ops[n:]
	}
	return chunks
}
