package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/categorize"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/parser"
	"github.com/nikolastas/logistis-sub000/internal/pipeline"
)

type fakeStore struct {
	saved     []models.ProcessedMovement
	household string
	err       error
}

func (f *fakeStore) Save(_ context.Context, householdID, _ string, movements []models.ProcessedMovement) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.household = householdID
	f.saved = append(f.saved, movements...)
	return len(movements), nil
}

type fakeLinker struct {
	calls []string
	err   error
}

func (f *fakeLinker) Link(_ context.Context, householdID string) (int, error) {
	f.calls = append(f.calls, householdID)
	return 2, f.err
}

func newHandler() *Handler {
	registry := parser.DefaultRegistry()
	return &Handler{
		Pipeline: pipeline.New(registry, categorize.New(catalog.Default())),
		Registry: registry,
		Directory: catalog.NewDirectory([]models.HouseholdMember{
			{ID: "u2", HouseholdID: "h1", NameAliases: []string{"John Smith"}},
		}),
		Log:     zerolog.Nop(),
		Version: "test",
	}
}

func uploadRequest(t *testing.T, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if content != nil {
		fw, err := mw.CreateFormFile("file", "statement.csv")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

const statement = "Date,Description,Amount\n" +
	"2024-03-11,SEND MONEY TO JOHN SMITH,-40.00\n" +
	"2024-03-12,SKLAVENITIS ATHINA,-45.90\n"

func TestHealthEndpoint(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	decode(t, resp, &result)
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
	assert.Equal(t, "test", result["version"])
}

func TestFormatsEndpoint(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/formats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var formats []Format
	decode(t, resp, &formats)
	require.NotEmpty(t, formats)
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "generic-csv")
	assert.Contains(t, names, "nbg-legacy-csv")
}

func TestProcessRequiresFile(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(uploadRequest(t, nil, map[string]string{"household": "h1"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result ProcessResponse
	decode(t, resp, &result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestProcessClassifiesUpload(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(uploadRequest(t, []byte(statement), map[string]string{
		"household": "h1",
		"csv":       "true",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ProcessResponse
	decode(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "generic-csv", result.Adapter)
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Movements, 2)

	transfer := result.Movements[0]
	assert.Equal(t, models.TransferHouseholdMember, transfer.Transfer.TransferType)
	assert.Equal(t, "u2", transfer.Transfer.CounterpartyUserID)
	assert.Equal(t, catalog.ToHouseholdMember, transfer.CategoryID)
	assert.Equal(t, "groceries", result.Movements[1].CategoryID)

	assert.Nil(t, result.Inserted)
	assert.Contains(t, result.CSV, "Date,Description,Amount")
}

func TestProcessSavesAndLinks(t *testing.T) {
	h := newHandler()
	store := &fakeStore{}
	link := &fakeLinker{}
	h.Store = store
	h.Linker = link
	app := NewApp(h, 0)

	resp, err := app.Test(uploadRequest(t, []byte(statement), map[string]string{"household": "h1"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result ProcessResponse
	decode(t, resp, &result)
	require.NotNil(t, result.Inserted)
	require.NotNil(t, result.Linked)
	assert.Equal(t, 2, *result.Inserted)
	assert.Equal(t, 2, *result.Linked)
	assert.Equal(t, "h1", store.household)
	assert.Len(t, store.saved, 2)
	assert.Equal(t, []string{"h1"}, link.calls)
	assert.Empty(t, result.CSV)
}

func TestProcessWithoutHouseholdSkipsStore(t *testing.T) {
	h := newHandler()
	store := &fakeStore{}
	h.Store = store
	app := NewApp(h, 0)

	resp, err := app.Test(uploadRequest(t, []byte(statement), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, store.saved)
}

func TestProcessStoreFailure(t *testing.T) {
	h := newHandler()
	h.Store = &fakeStore{err: errors.New("disk full")}
	app := NewApp(h, 0)

	resp, err := app.Test(uploadRequest(t, []byte(statement), map[string]string{"household": "h1"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestProcessMalformedPDF(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(uploadRequest(t, []byte("%PDF-1.4\nnot really a pdf"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var result ProcessResponse
	decode(t, resp, &result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "malformed input")
}

func TestLinkEndpoint(t *testing.T) {
	h := newHandler()
	link := &fakeLinker{}
	h.Linker = link
	app := NewApp(h, 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/households/h1/link", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	decode(t, resp, &result)
	assert.Equal(t, "h1", result["household"])
	assert.EqualValues(t, 2, result["linked"])
	assert.Equal(t, []string{"h1"}, link.calls)
}

func TestLinkWithoutDatabase(t *testing.T) {
	app := NewApp(newHandler(), 0)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/households/h1/link", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
