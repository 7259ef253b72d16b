package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/label"
)

func TestAbsorbAppendsLists(t *testing.T) {
	t.Parallel()

	c := Contact{ID: "c-1", Phones: []Phone{{Number: "555-1"}}}
	c.Absorb(Contact{ID: "c-1", Phones: []Phone{{Number: "555-2"}}})
	c.Absorb(Contact{ID: "c-1", Emails: []Email{{Address: "a@example.com"}}})

	require.Len(t, c.Phones, 2)
	require.Len(t, c.Emails, 1)
	assert.Equal(t, "555-1", c.Phones[0].Number)
	assert.Equal(t, "555-2", c.Phones[1].Number)
}

func TestAbsorbNicknameBeforeStructuredName(t *testing.T) {
	t.Parallel()

	// The nickname partial can land first; the structured-name partial
	// arriving later must not erase it.
	var c Contact
	c.Absorb(Contact{ID: "c-1", Name: Name{
		Nickname:         "Ace",
		NicknameMetadata: &PropertyMetadata{DataID: "d-nick"},
	}})
	c.Absorb(Contact{ID: "c-1", Name: Name{
		First:    "Alice",
		Last:     "Chu",
		Metadata: &PropertyMetadata{DataID: "d-name"},
	}})

	assert.Equal(t, "Alice", c.Name.First)
	assert.Equal(t, "Ace", c.Name.Nickname)
	require.NotNil(t, c.Name.Metadata)
	require.NotNil(t, c.Name.NicknameMetadata)
	assert.Equal(t, "d-name", c.Name.Metadata.DataID)
	assert.Equal(t, "d-nick", c.Name.NicknameMetadata.DataID)
}

func TestAbsorbStructuredNameBeforeNickname(t *testing.T) {
	t.Parallel()

	var c Contact
	c.Absorb(Contact{ID: "c-1", Name: Name{First: "Alice", Metadata: &PropertyMetadata{DataID: "d-name"}}})
	c.Absorb(Contact{ID: "c-1", Name: Name{Nickname: "Ace", NicknameMetadata: &PropertyMetadata{DataID: "d-nick"}}})

	assert.Equal(t, "Alice", c.Name.First)
	assert.Equal(t, "Ace", c.Name.Nickname)
	require.NotNil(t, c.Name.NicknameMetadata)
	assert.Equal(t, "d-nick", c.Name.NicknameMetadata.DataID)
}

func TestAbsorbScalarsFirstWins(t *testing.T) {
	t.Parallel()

	c := Contact{Ringtone: "chime"}
	c.Absorb(Contact{Ringtone: "buzz", Starred: true})

	assert.Equal(t, "chime", c.Ringtone)
	assert.True(t, c.Starred)
}

func TestAbsorbPartitionsDeduplicated(t *testing.T) {
	t.Parallel()

	c := Contact{Partitions: []Partition{{ID: "local"}}}
	c.Absorb(Contact{Partitions: []Partition{{ID: "local"}, {ID: "acct-1"}}})

	require.Len(t, c.Partitions, 2)
	assert.Equal(t, "local", c.Partitions[0].ID)
	assert.Equal(t, "acct-1", c.Partitions[1].ID)
}

func TestAbsorbPropertiesGrowMonotonically(t *testing.T) {
	t.Parallel()

	c := Contact{Metadata: Metadata{Properties: NewPropertySet(KindPhone)}}
	c.Absorb(Contact{Metadata: Metadata{Properties: NewPropertySet(KindEmail)}})

	assert.True(t, c.Metadata.Properties.Has(KindPhone))
	assert.True(t, c.Metadata.Properties.Has(KindEmail))
}

func TestHasStoredProperties(t *testing.T) {
	t.Parallel()

	fresh := Contact{Phones: []Phone{{Number: "555-1"}}}
	assert.False(t, fresh.HasStoredProperties())

	stored := Contact{Phones: []Phone{{Number: "555-1", Metadata: &PropertyMetadata{DataID: "d-1"}}}}
	assert.True(t, stored.HasStoredProperties())

	named := Contact{Name: Name{First: "A", Metadata: &PropertyMetadata{DataID: "d-2"}}}
	assert.True(t, named.HasStoredProperties())
}

func TestPhotoIsEmpty(t *testing.T) {
	t.Parallel()

	var p *Photo
	assert.True(t, p.IsEmpty())
	assert.True(t, (&Photo{}).IsEmpty())
	assert.False(t, (&Photo{Thumbnail: []byte{1}}).IsEmpty())
	assert.False(t, (&Photo{FullSize: []byte{1}}).IsEmpty())
}

func TestContactWireShape(t *testing.T) {
	t.Parallel()

	c := Contact{
		ID: "c-1",
		Phones: []Phone{{
			Number:   "555-1",
			Primary:  true,
			Label:    label.Custom(label.PhoneCustom, "pager"),
			Metadata: &PropertyMetadata{DataID: "d-1", PartitionID: "local"},
		}},
		Starred:  true,
		Metadata: Metadata{Properties: NewPropertySet(KindPhone)},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, true, decoded["isStarred"])
	phones := decoded["phones"].([]any)
	require.Len(t, phones, 1)
	phone := phones[0].(map[string]any)
	lbl := phone["label"].(map[string]any)
	assert.Equal(t, "custom", lbl["label"])
	assert.Equal(t, "pager", lbl["customLabel"])
	meta := phone["metadata"].(map[string]any)
	assert.Equal(t, "d-1", meta["dataId"])
	assert.Equal(t, "local", meta["partitionId"])

	var back Contact
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.Phones[0].Label, back.Phones[0].Label)
	assert.True(t, back.Metadata.Properties.Has(KindPhone))
}
