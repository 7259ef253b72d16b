// Package partition decides which contact store partition owns new records.
// A single logical contact may be backed by several partitions (one per
// linked external account), so writes with no explicit target need a
// deterministic owner.
package partition

import (
	"errors"

	"github.com/rolodexd/rolodexd/internal/model"
)

// ErrNoPartitions means the store exposes no partition to write into.
var ErrNoPartitions = errors.New("partition: no candidate partitions")

// Policy carries the system default-account preference.
type Policy struct {
	DefaultPartitionID string
}

// ResolveTarget picks the partition that owns newly created records: the
// explicit account when given, else the policy default when it exists among
// the candidates, else the first candidate.
func ResolveTarget(explicit *model.Partition, policy Policy, candidates []model.Partition) (model.Partition, error) {
	if explicit != nil && explicit.ID != "" {
		return *explicit, nil
	}
	if len(candidates) == 0 {
		return model.Partition{}, ErrNoPartitions
	}
	if policy.DefaultPartitionID != "" {
		for _, p := range candidates {
			if p.ID == policy.DefaultPartitionID {
				return p, nil
			}
		}
	}
	return candidates[0], nil
}

// ResolvePrimaryForUpdate picks the authoritative partition for an update of
// an existing multi-partition contact. Three-step waterfall, first match
// wins: (1) the partition already holding the most populated fields, which
// maximizes data locality; (2) the policy default, if the contact spans it;
// (3) the first candidate.
func ResolvePrimaryForUpdate(c model.Contact, policy Policy, candidates []model.Partition) (model.Partition, error) {
	if len(candidates) == 0 {
		candidates = c.Partitions
	}
	if len(candidates) == 0 {
		return model.Partition{}, ErrNoPartitions
	}

	counts := fieldCounts(c)
	best, bestCount := model.Partition{}, 0
	for _, p := range candidates {
		if n := counts[p.ID]; n > bestCount {
			best, bestCount = p, n
		}
	}
	if bestCount > 0 {
		return best, nil
	}

	if policy.DefaultPartitionID != "" {
		for _, p := range candidates {
			if p.ID == policy.DefaultPartitionID {
				return p, nil
			}
		}
	}
	return candidates[0], nil
}

// fieldCounts tallies how many stored property values each partition holds.
func fieldCounts(c model.Contact) map[string]int {
	counts := map[string]int{}
	add := func(id string) {
		if id != "" {
			counts[id]++
		}
	}
	if c.Name.Metadata != nil {
		add(c.Name.Metadata.PartitionID)
	}
	if c.Name.NicknameMetadata != nil {
		add(c.Name.NicknameMetadata.PartitionID)
	}
	for _, p := range c.Phones {
		add(p.PartitionID())
	}
	for _, e := range c.Emails {
		add(e.PartitionID())
	}
	for _, a := range c.Addresses {
		add(a.PartitionID())
	}
	for _, o := range c.Organizations {
		add(o.PartitionID())
	}
	for _, w := range c.Websites {
		add(w.PartitionID())
	}
	for _, s := range c.SocialMedias {
		add(s.PartitionID())
	}
	for _, e := range c.Events {
		add(e.PartitionID())
	}
	for _, r := range c.Relations {
		add(r.PartitionID())
	}
	for _, n := range c.Notes {
		add(n.PartitionID())
	}
	return counts
}
