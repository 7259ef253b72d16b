package contacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/dispatch"
	"github.com/rolodexd/rolodexd/internal/fetch"
	"github.com/rolodexd/rolodexd/internal/label"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/partition"
	"github.com/rolodexd/rolodexd/internal/store"
	"github.com/rolodexd/rolodexd/internal/store/memstore"
)

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	pool := dispatch.NewPool(4)
	t.Cleanup(pool.Close)
	svc := NewService(
		nil,
		st,
		fetch.NewPipeline(nil, st, 2),
		batch.NewExecutor(nil, st, batch.Options{}),
		pool,
		partition.Policy{},
	)
	return svc, st
}

func sampleContact() model.Contact {
	return model.Contact{
		Name: model.Name{First: "Alice", Last: "Chu", Nickname: "Ace"},
		Phones: []model.Phone{
			{Number: "555-0100", Label: label.Label[label.PhoneLabel]{Tag: label.PhoneMobile}, Primary: true},
			{Number: "555-0101", Label: label.Label[label.PhoneLabel]{Tag: label.PhoneHome}},
		},
		Emails: []model.Email{
			{Address: "alice@example.com", Label: label.Label[label.EmailLabel]{Tag: label.EmailHome}},
		},
		Notes: []model.Note{{Note: "met at gophercon"}},
	}
}

func TestCreateAndFetchRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice Chu", created.DisplayName)
	assert.Equal(t, "Alice", created.Name.First)
	assert.Equal(t, "Ace", created.Name.Nickname)
	require.Len(t, created.Phones, 2)
	require.Len(t, created.Emails, 1)
	require.Len(t, created.Notes, 1)

	for _, p := range created.Phones {
		require.NotNil(t, p.Metadata)
		assert.NotEmpty(t, p.Metadata.DataID)
		assert.Equal(t, "local", p.Metadata.PartitionID)
	}
	require.NotNil(t, created.Name.Metadata)
	require.NotNil(t, created.Name.NicknameMetadata)
	assert.NotEqual(t, created.Name.Metadata.DataID, created.Name.NicknameMetadata.DataID)

	fetched, err := svc.FetchContact(context.Background(), created.ID, model.AllProperties(), "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	require.Len(t, fetched.Phones, 2)
}

func TestCreateRejectsSavedContact(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.CreateContact(context.Background(), model.Contact{ID: "c-1"}, nil)
	assert.ErrorIs(t, err, ErrAlreadySaved)
	assert.True(t, IsPrecondition(err))

	withStoredPhone := model.Contact{
		Phones: []model.Phone{{Number: "555-1", Metadata: &model.PropertyMetadata{DataID: "d-1"}}},
	}
	_, err = svc.CreateContact(context.Background(), withStoredPhone, nil)
	assert.ErrorIs(t, err, ErrAlreadySaved)
}

func TestUpdateReconcilesPhoneList(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)

	next, err := svc.FetchContact(context.Background(), created.ID, model.NewPropertySet(model.KindPhone), "")
	require.NoError(t, err)
	require.Len(t, next.Phones, 2)

	// Change the first number, drop the second, add a brand-new one.
	next.Phones[0].Number = "555-0199"
	next.Phones = append(next.Phones[:1], model.Phone{
		Number: "555-0102",
		Label:  label.Label[label.PhoneLabel]{Tag: label.PhoneWork},
	})

	updated, err := svc.UpdateContact(context.Background(), *next)
	require.NoError(t, err)
	require.Len(t, updated.Phones, 2)

	numbers := map[string]bool{}
	for _, p := range updated.Phones {
		numbers[p.Number] = true
		require.NotNil(t, p.Metadata)
		assert.NotEmpty(t, p.Metadata.DataID)
	}
	assert.True(t, numbers["555-0199"])
	assert.True(t, numbers["555-0102"])
	assert.False(t, numbers["555-0101"], "dropped phone must be deleted")
}

func TestUpdateLeavesUnfetchedKindsAlone(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)

	// Snapshot loads phones only; the empty email list in the snapshot must
	// not delete the stored emails.
	snap, err := svc.FetchContact(context.Background(), created.ID, model.NewPropertySet(model.KindPhone), "")
	require.NoError(t, err)
	assert.Empty(t, snap.Emails)
	snap.Phones = snap.Phones[:1]

	_, err = svc.UpdateContact(context.Background(), *snap)
	require.NoError(t, err)

	full, err := svc.FetchContact(context.Background(), created.ID, model.AllProperties(), "")
	require.NoError(t, err)
	assert.Len(t, full.Phones, 1)
	assert.Len(t, full.Emails, 1, "unfetched email list must survive the update")
}

func TestUpdateReplacesName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)
	oldNameID := created.Name.Metadata.DataID

	next := *created
	next.Name.Last = "Nakamura"

	updated, err := svc.UpdateContact(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, "Nakamura", updated.Name.Last)
	assert.Equal(t, "Ace", updated.Name.Nickname)
	require.NotNil(t, updated.Name.Metadata)
	assert.NotEqual(t, oldNameID, updated.Name.Metadata.DataID, "name change reinserts the record")
}

func TestUpdateUnchangedNameIssuesNoOps(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)
	oldNameID := created.Name.Metadata.DataID

	updated, err := svc.UpdateContact(context.Background(), *created)
	require.NoError(t, err)
	require.NotNil(t, updated.Name.Metadata)
	assert.Equal(t, oldNameID, updated.Name.Metadata.DataID, "unchanged name keeps its record")
}

func TestUpdateScalars(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	created, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)

	next := *created
	next.Starred = true
	next.Ringtone = "chime"

	updated, err := svc.UpdateContact(context.Background(), next)
	require.NoError(t, err)
	assert.True(t, updated.Starred)
	assert.Equal(t, "chime", updated.Ringtone)
}

func TestUpdateRequiresSnapshot(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.UpdateContact(context.Background(), model.Contact{})
	assert.ErrorIs(t, err, ErrNoSnapshot)

	// Saved id but no properties metadata.
	_, err = svc.UpdateContact(context.Background(), model.Contact{ID: "c-1"})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestUpdateContactsRejectsMixedBatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	a, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)
	b, err := svc.CreateContact(context.Background(), model.Contact{Name: model.Name{First: "Bob"}}, nil)
	require.NoError(t, err)

	aSnap, err := svc.FetchContact(context.Background(), a.ID, model.NewPropertySet(model.KindPhone), "")
	require.NoError(t, err)
	bSnap, err := svc.FetchContact(context.Background(), b.ID, model.NewPropertySet(model.KindEmail), "")
	require.NoError(t, err)

	_, err = svc.UpdateContacts(context.Background(), []model.Contact{*aSnap, *bSnap})
	assert.ErrorIs(t, err, ErrMixedBatch)
}

func TestUpdateContactsUniformBatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	a, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)
	b, err := svc.CreateContact(context.Background(), model.Contact{Name: model.Name{First: "Bob"}}, nil)
	require.NoError(t, err)

	props := model.NewPropertySet(model.KindName)
	aSnap, err := svc.FetchContact(context.Background(), a.ID, props, "")
	require.NoError(t, err)
	bSnap, err := svc.FetchContact(context.Background(), b.ID, props, "")
	require.NoError(t, err)

	aSnap.Name.First = "Alicia"
	bSnap.Name.First = "Robert"

	out, err := svc.UpdateContacts(context.Background(), []model.Contact{*aSnap, *bSnap})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alicia", out[0].Name.First)
	assert.Equal(t, "Robert", out[1].Name.First)
}

func TestDeleteContacts(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)
	a, err := svc.CreateContact(context.Background(), sampleContact(), nil)
	require.NoError(t, err)
	b, err := svc.CreateContact(context.Background(), model.Contact{Name: model.Name{First: "Bob"}}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContacts(context.Background(), []string{a.ID, b.ID}))

	_, err = svc.FetchContact(context.Background(), a.ID, model.AllProperties(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	phones, err := st.Query(context.Background(), store.Query{Kind: store.KindPhone})
	require.NoError(t, err)
	assert.Empty(t, phones, "data rows follow their contact")
}

func TestDisplayNameDerivation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		c    model.Contact
		want string
	}{
		{"first and last", model.Contact{Name: model.Name{First: "Alice", Last: "Chu"}}, "Alice Chu"},
		{"first only", model.Contact{Name: model.Name{First: "Alice"}}, "Alice"},
		{"nickname", model.Contact{Name: model.Name{Nickname: "Ace"}}, "Ace"},
		{"company", model.Contact{Organizations: []model.Organization{{Company: "Initech"}}}, "Initech"},
		{"phone", model.Contact{Phones: []model.Phone{{Number: "555-1"}}}, "555-1"},
		{"email", model.Contact{Emails: []model.Email{{Address: "a@b.c"}}}, "a@b.c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, displayName(tc.c))
		})
	}
}

func TestPartitionsPassThrough(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	parts, err := svc.Partitions(context.Background())
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "local", parts[0].ID)
}
