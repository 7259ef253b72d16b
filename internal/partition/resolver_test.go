package partition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/partition"
)

var (
	local = model.Partition{ID: "local", Name: "Device", Type: "local"}
	gmail = model.Partition{ID: "acct-1", Name: "ada@example.org", Type: "carddav"}
	work  = model.Partition{ID: "acct-2", Name: "ada@work.example", Type: "carddav"}
)

func meta(part string) *model.PropertyMetadata {
	return &model.PropertyMetadata{DataID: "x", PartitionID: part}
}

func TestResolveTarget_ExplicitWins(t *testing.T) {
	t.Parallel()
	got, err := partition.ResolveTarget(&work, partition.Policy{DefaultPartitionID: "local"},
		[]model.Partition{local, gmail, work})
	require.NoError(t, err)
	assert.Equal(t, work, got)
}

func TestResolveTarget_PolicyDefault(t *testing.T) {
	t.Parallel()
	got, err := partition.ResolveTarget(nil, partition.Policy{DefaultPartitionID: "acct-1"},
		[]model.Partition{local, gmail})
	require.NoError(t, err)
	assert.Equal(t, gmail, got)
}

func TestResolveTarget_FallsBackToFirst(t *testing.T) {
	t.Parallel()
	got, err := partition.ResolveTarget(nil, partition.Policy{DefaultPartitionID: "missing"},
		[]model.Partition{local, gmail})
	require.NoError(t, err)
	assert.Equal(t, local, got)
}

func TestResolveTarget_NoCandidates(t *testing.T) {
	t.Parallel()
	_, err := partition.ResolveTarget(nil, partition.Policy{}, nil)
	assert.ErrorIs(t, err, partition.ErrNoPartitions)
}

func TestResolvePrimaryForUpdate_MostPopulatedFieldsWins(t *testing.T) {
	t.Parallel()
	c := model.Contact{
		ID: "c1",
		Phones: []model.Phone{
			{Number: "1", Metadata: meta("acct-2")},
			{Number: "2", Metadata: meta("acct-2")},
		},
		Emails:     []model.Email{{Address: "a@b", Metadata: meta("acct-1")}},
		Partitions: []model.Partition{gmail, work},
	}
	got, err := partition.ResolvePrimaryForUpdate(c, partition.Policy{DefaultPartitionID: "acct-1"},
		[]model.Partition{gmail, work})
	require.NoError(t, err)
	// Data locality beats the default account.
	assert.Equal(t, work, got)
}

func TestResolvePrimaryForUpdate_DefaultWhenNoFieldData(t *testing.T) {
	t.Parallel()
	c := model.Contact{ID: "c1", Partitions: []model.Partition{local, gmail}}
	got, err := partition.ResolvePrimaryForUpdate(c, partition.Policy{DefaultPartitionID: "acct-1"},
		[]model.Partition{local, gmail})
	require.NoError(t, err)
	assert.Equal(t, gmail, got)
}

func TestResolvePrimaryForUpdate_FirstAsLastResort(t *testing.T) {
	t.Parallel()
	c := model.Contact{ID: "c1"}
	got, err := partition.ResolvePrimaryForUpdate(c, partition.Policy{}, []model.Partition{work, local})
	require.NoError(t, err)
	assert.Equal(t, work, got)
}

func TestResolvePrimaryForUpdate_FallsBackToContactPartitions(t *testing.T) {
	t.Parallel()
	c := model.Contact{ID: "c1", Partitions: []model.Partition{gmail}}
	got, err := partition.ResolvePrimaryForUpdate(c, partition.Policy{}, nil)
	require.NoError(t, err)
	assert.Equal(t, gmail, got)
}
