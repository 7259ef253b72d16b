package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodexd/rolodexd/internal/batch"
	"github.com/rolodexd/rolodexd/internal/contacts"
	"github.com/rolodexd/rolodexd/internal/dispatch"
	"github.com/rolodexd/rolodexd/internal/fetch"
	"github.com/rolodexd/rolodexd/internal/groups"
	"github.com/rolodexd/rolodexd/internal/model"
	"github.com/rolodexd/rolodexd/internal/partition"
	"github.com/rolodexd/rolodexd/internal/store/memstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()
	st := memstore.New()
	pool := dispatch.NewPool(4)
	t.Cleanup(pool.Close)
	executor := batch.NewExecutor(nil, st, batch.Options{})
	contactSvc := contacts.NewService(nil, st, fetch.NewPipeline(nil, st, 2), executor, pool, partition.Policy{})
	groupSvc := groups.NewService(nil, st, executor, pool, partition.Policy{})

	e := echo.New()
	NewPingHandler(discardLogger()).Register(e)
	NewContactsHandler(discardLogger(), contactSvc).Register(e)
	NewGroupsHandler(discardLogger(), groupSvc).Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createTestContact(t *testing.T, e *echo.Echo, c model.Contact) model.Contact {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/contacts", createContactRequest{Contact: c})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Contact](t, rec)
}

func TestPing(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestContactLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	created := createTestContact(t, e, model.Contact{
		Name:   model.Name{First: "Alice", Last: "Chu"},
		Phones: []model.Phone{{Number: "555-0100"}},
	})
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice Chu", created.DisplayName)

	rec := doJSON(t, e, http.MethodGet, "/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Contact](t, rec)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Phones, 1)

	got.Phones[0].Number = "555-0199"
	rec = doJSON(t, e, http.MethodPatch, "/contacts/"+created.ID, got)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Contact](t, rec)
	require.Len(t, updated.Phones, 1)
	assert.Equal(t, "555-0199", updated.Phones[0].Number)

	rec = doJSON(t, e, http.MethodDelete, "/contacts/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/contacts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListContactsWithProperties(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	createTestContact(t, e, model.Contact{
		Name:   model.Name{First: "Alice"},
		Phones: []model.Phone{{Number: "555-0100"}},
		Emails: []model.Email{{Address: "alice@example.com"}},
	})

	rec := doJSON(t, e, http.MethodGet, "/contacts?properties=name,phone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Items []model.Contact `json:"items"`
	}](t, rec)
	require.Len(t, body.Items, 1)
	assert.Len(t, body.Items[0].Phones, 1)
	assert.Empty(t, body.Items[0].Emails, "unrequested properties stay empty")
}

func TestListContactsUnknownProperty(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodGet, "/contacts?properties=name,bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListContactsEmptyStore(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodGet, "/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestCreateSavedContactIsBadRequest(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodPost, "/contacts", createContactRequest{
		Contact: model.Contact{ID: "c-1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateWithoutSnapshotIsBadRequest(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	created := createTestContact(t, e, model.Contact{Name: model.Name{First: "Alice"}})

	// A PATCH body without fetch metadata carries no property snapshot.
	rec := doJSON(t, e, http.MethodPatch, "/contacts/"+created.ID, model.Contact{
		Name: model.Name{First: "Alicia"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchUpdateMixedPropertiesIsBadRequest(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	a := createTestContact(t, e, model.Contact{Name: model.Name{First: "Alice"}})
	b := createTestContact(t, e, model.Contact{Name: model.Name{First: "Bob"}})

	aRec := doJSON(t, e, http.MethodGet, "/contacts/"+a.ID+"?properties=name", nil)
	require.Equal(t, http.StatusOK, aRec.Code)
	bRec := doJSON(t, e, http.MethodGet, "/contacts/"+b.ID+"?properties=email", nil)
	require.Equal(t, http.StatusOK, bRec.Code)

	rec := doJSON(t, e, http.MethodPatch, "/contacts", updateBatchRequest{
		Contacts: []model.Contact{
			decode[model.Contact](t, aRec),
			decode[model.Contact](t, bRec),
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteManyRequiresIDs(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodDelete, "/contacts", deleteContactsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPartitionsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	rec := doJSON(t, e, http.MethodGet, "/partitions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Items []model.Partition `json:"items"`
	}](t, rec)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "local", body.Items[0].ID)
}

func TestListContactsScopedToAccount(t *testing.T) {
	t.Parallel()

	e := newTestApp(t)
	createTestContact(t, e, model.Contact{Name: model.Name{First: "Alice"}})

	rec := doJSON(t, e, http.MethodPost, "/contacts", createContactRequest{
		Contact: model.Contact{Name: model.Name{First: "Walter"}},
		Account: &model.Partition{ID: "work"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/contacts?account=work", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Items []model.Contact `json:"items"`
	}](t, rec)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Walter", body.Items[0].Name.First)
}
