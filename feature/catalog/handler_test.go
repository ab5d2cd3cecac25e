package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"media-catalog/core/reconcile"
	"media-catalog/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*fiber.App, *catalog.Service) {
	t.Helper()
	svc, _ := newService(t)
	app := fiber.New()
	catalog.NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func send(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHandleCreateAndUpdate(t *testing.T) {
	app, _ := newApp(t)

	status, body := send(t, app, fiber.MethodPost, "/genres", `{"name":"Rock"}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var genre catalog.WriteResult
	require.NoError(t, json.Unmarshal(body, &genre))

	status, body = send(t, app, fiber.MethodPost, "/artists", `{"name":"A","genres":["`+genre.ID+`"]}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var artist catalog.WriteResult
	require.NoError(t, json.Unmarshal(body, &artist))
	assert.True(t, artist.Created)
	assert.Equal(t, 1, artist.Affected[catalog.KindArtistGenres])

	status, body = send(t, app, fiber.MethodPut, "/artists/"+artist.ID, `{"name":"A2","genres":[]}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var updated catalog.WriteResult
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, artist.ID, updated.ID)
	assert.False(t, updated.Created)
	assert.Equal(t, 1, updated.Affected[catalog.KindArtistGenres])
}

func TestHandleSaveErrors(t *testing.T) {
	app, _ := newApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"malformed body", fiber.MethodPost, "/artists", `{"name":`, fiber.StatusBadRequest},
		{"validation", fiber.MethodPost, "/artists", `{"name":""}`, fiber.StatusBadRequest},
		{"missing entity", fiber.MethodPut, "/works/" + uuid.NewString(), `{"title":"T"}`, fiber.StatusNotFound},
		{"dangling child", fiber.MethodPost, "/artists", `{"name":"A","genres":["` + uuid.NewString() + `"]}`, fiber.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := send(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, status, string(body))
			assert.Contains(t, string(body), `"error"`)
		})
	}
}

func TestHandleListAndReorder(t *testing.T) {
	app, svc := newApp(t)
	ctx := context.Background()

	p := createProduct(t, svc, "Bundle")
	w1, err := svc.SaveWork(ctx, catalog.WorkInput{Title: "One", Products: []catalog.LinkInput{{ID: p}}})
	require.NoError(t, err)
	w2, err := svc.SaveWork(ctx, catalog.WorkInput{Title: "Two", Products: []catalog.LinkInput{{ID: p}}})
	require.NoError(t, err)

	status, body := send(t, app, fiber.MethodGet, "/associations/work_to_products/children/"+p, "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	var rows []reconcile.Record
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, w1.ID, rows[0].Owner.String())

	reorder := `{"rows":[{"owner":"` + w1.ID + `","child":"` + p + `","reference_order":1},` +
		`{"owner":"` + w2.ID + `","child":"` + p + `","reference_order":0}]}`
	status, body = send(t, app, fiber.MethodPatch, "/associations/work_to_products/order?reference=true", reorder)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.JSONEq(t, `{"changed":2}`, string(body))

	status, body = send(t, app, fiber.MethodGet, "/associations/work_to_products/owners/"+w2.ID, "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	rows = nil
	require.NoError(t, json.Unmarshal(body, &rows))
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ReferenceOrder)
	assert.Equal(t, 0, *rows[0].ReferenceOrder)
}

func TestHandleAssociationErrors(t *testing.T) {
	app, _ := newApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"unknown kind", fiber.MethodGet, "/associations/labels/owners/x", "", fiber.StatusNotFound},
		{"bad owner key", fiber.MethodGet, "/associations/release_track_artists/owners/x", "", fiber.StatusBadRequest},
		{"reference on plain kind", fiber.MethodPatch, "/associations/artist_genres/order?reference=true",
			`{"rows":[{"owner":"` + uuid.NewString() + `","child":"` + uuid.NewString() + `","reference_order":0}]}`, fiber.StatusBadRequest},
		{"bad reference flag", fiber.MethodPatch, "/associations/artist_genres/order?reference=maybe", `{"rows":[]}`, fiber.StatusBadRequest},
		{"empty rows", fiber.MethodPatch, "/associations/artist_genres/order", `{"rows":[]}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := send(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}

func TestHandleDeleteAndGetRelease(t *testing.T) {
	app, svc := newApp(t)

	res, err := svc.SaveRelease(context.Background(), catalog.ReleaseInput{
		Title: "Album",
		Media: []catalog.MediaInput{{Number: 1, Tracks: []catalog.TrackInput{{Number: 1, Title: "Intro"}}}},
	})
	require.NoError(t, err)

	status, body := send(t, app, fiber.MethodGet, "/releases/"+res.ID, "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"Intro"`)

	status, body = send(t, app, fiber.MethodDelete, "/releases/"+res.ID, "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.JSONEq(t, `{"deleted":1}`, string(body))

	status, _ = send(t, app, fiber.MethodGet, "/releases/"+res.ID, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = send(t, app, fiber.MethodDelete, "/releases/"+res.ID, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":0}`, string(body))

	status, _ = send(t, app, fiber.MethodDelete, "/labels/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
