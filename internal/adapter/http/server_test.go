package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/flowline-styler/internal/adapter/http"
	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/observability"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	"github.com/couchcryptid/flowline-styler/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type styleBody struct {
	Revision   uint64                 `json:"revision"`
	Zoom       int                    `json:"zoom"`
	Threshold  int                    `json:"threshold"`
	Thresholds [domain.ZoomLevels]int `json:"thresholds"`
	Lock       bool                   `json:"lock"`
	Highlight  domain.RGBA            `json:"highlight"`
	Range      domain.RampParams      `json:"range"`
	Marker     domain.MarkerStyle     `json:"marker"`
	MarkerCSS  string                 `json:"marker_css"`
}

func newTestServer(t *testing.T, readyErr error) (*httpadapter.Server, *style.Store) {
	t.Helper()
	store, err := style.NewStore(style.DefaultPreset())
	require.NoError(t, err)
	srv := httpadapter.NewServer(":0", store, raster.NewRenderer(2), &mockReadiness{err: readyErr},
		observability.NewMetricsForTesting(), slog.Default(), 1<<20)
	return srv, store
}

func do(srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeStyle(t *testing.T, rec *httptest.ResponseRecorder) styleBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body styleBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(t, fmt.Errorf("pipeline not running"))
	rec := do(srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "pipeline not running", body["error"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(srv, http.MethodOptions, "/v1/style/threshold", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

// --- style ---

func TestGetStyleDefaults(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := decodeStyle(t, do(srv, http.MethodGet, "/v1/style", ""))

	assert.Equal(t, uint64(0), body.Revision)
	assert.Equal(t, 7, body.Threshold)
	assert.Equal(t, domain.DefaultStreamOrderClipValues, body.Thresholds)
	assert.True(t, body.Lock)
	assert.Equal(t, domain.DefaultHighlight, body.Highlight)
	assert.Equal(t, domain.DefaultRamp, body.Range)
	assert.Equal(t, "rgba(0,255,0,1)", body.MarkerCSS)
}

func TestPutThreshold(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := do(srv, http.MethodPut, "/v1/style/threshold", `{"value": 3}`)
	body := decodeStyle(t, rec)
	assert.Equal(t, 3, body.Threshold)
	assert.Equal(t, uint64(1), body.Revision)
	assert.Equal(t, "1", rec.Header().Get("X-Style-Revision"))

	tests := map[string]string{
		"out of range":  `{"value": 8}`,
		"missing value": `{}`,
		"wrong type":    `{"value": "high"}`,
		"unknown field": `{"value": 3, "zoom": 2}`,
		"not json":      `threshold=3`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(srv, http.MethodPut, "/v1/style/threshold", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))
		})
	}
}

func TestPutZoomAndTable(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := decodeStyle(t, do(srv, http.MethodPut, "/v1/style/zoom", `{"value": 10}`))
	assert.Equal(t, 10, body.Zoom)
	assert.Equal(t, 4, body.Threshold)

	body = decodeStyle(t, do(srv, http.MethodPut, "/v1/style/thresholds/10", `{"value": 6}`))
	assert.Equal(t, [domain.ZoomLevels]int{7, 7, 7, 6, 6, 6, 6, 6, 6, 6, 6, 4, 3, 3, 3, 2, 2, 2, 1, 1, 1}, body.Thresholds)
	assert.Equal(t, 6, body.Threshold)

	rec := do(srv, http.MethodPut, "/v1/style/thresholds/21", `{"value": 6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrLevelOutOfRange.Error(), errorBody(t, rec))

	rec = do(srv, http.MethodPut, "/v1/style/thresholds/ten", `{"value": 6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutLock(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	body := decodeStyle(t, do(srv, http.MethodPut, "/v1/style/lock", `{"value": false}`))
	assert.False(t, body.Lock)
}

func TestPutRange(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := decodeStyle(t, do(srv, http.MethodPut, "/v1/style/range", `{"min": 25, "invert": false}`))
	assert.Equal(t, domain.RampParams{Min: 25, Max: 100}, body.Range)

	rec := do(srv, http.MethodPut, "/v1/style/range", `{"min": 10, "max": 150}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrRangeOutOfBounds.Error(), errorBody(t, rec))

	body = decodeStyle(t, do(srv, http.MethodGet, "/v1/style", ""))
	assert.Equal(t, 25, body.Range.Min, "rejected update leaves every field alone")
}

func TestPutHighlightAndMarker(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := decodeStyle(t, do(srv, http.MethodPut, "/v1/style/highlight", `{"r": 238, "g": 153, "b": 0, "a": 255}`))
	assert.Equal(t, domain.RGBA{R: 238, G: 153, B: 0, A: 255}, body.Highlight)

	body = decodeStyle(t, do(srv, http.MethodPut, "/v1/style/marker", `{"a": 51, "radius": 7, "fill": true}`))
	assert.Equal(t, 7, body.Marker.Radius)
	assert.True(t, body.Marker.Fill)
	assert.Equal(t, "rgba(0,255,0,0.2)", body.MarkerCSS)

	rec := do(srv, http.MethodPut, "/v1/style/marker", `{"radius": 11}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(srv, http.MethodPut, "/v1/style/highlight", `{"g": 300}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- tiles ---

func encodeTile(t *testing.T, orders ...uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, len(orders), 1))
	for x, o := range orders {
		img.Pix[4*x], img.Pix[4*x+3] = o, 255
	}
	var buf bytes.Buffer
	require.NoError(t, raster.EncodePNG(&buf, img))
	return buf.Bytes()
}

func TestPostTile(t *testing.T) {
	srv, store := newTestServer(t, nil)
	require.NoError(t, store.SetThreshold(5))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tiles/flowlines/0", bytes.NewReader(encodeTile(t, 4, 5, 7)))
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Style-Revision"))

	out, err := raster.Decode(rec.Body)
	require.NoError(t, err)
	highlight := domain.DefaultHighlight.Pixel().NRGBA()
	assert.Zero(t, out.NRGBAAt(0, 0).A)
	assert.Equal(t, highlight, out.NRGBAAt(1, 0))
	assert.Equal(t, highlight, out.NRGBAAt(2, 0))
}

func TestPostTileErrors(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	tile := encodeTile(t, 1)

	tests := []struct {
		name string
		path string
		body []byte
		code int
	}{
		{"unknown layer", "/v1/tiles/roads/3", tile, http.StatusBadRequest},
		{"bad zoom", "/v1/tiles/flowlines/x", tile, http.StatusBadRequest},
		{"negative zoom", "/v1/tiles/flowlines/-1", tile, http.StatusBadRequest},
		{"zoom beyond table", "/v1/tiles/flowlines/21", tile, http.StatusBadRequest},
		{"not an image", "/v1/tiles/deciles/3", []byte("junk"), http.StatusUnprocessableEntity},
		{"too large", "/v1/tiles/gages/3", make([]byte, 2<<20), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))
		})
	}
}

// --- events ---

func TestEventsStreamChanges(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	lines := bufio.NewScanner(resp.Body)
	readEvent := func() map[string]string {
		fields := map[string]string{}
		for lines.Scan() {
			line := lines.Text()
			if line == "" {
				return fields
			}
			if k, v, ok := strings.Cut(line, ": "); ok {
				fields[k] = v
			}
		}
		return fields
	}

	first := readEvent()
	assert.Equal(t, "revision", first["event"])
	assert.Equal(t, "0", first["data"])

	put, err := http.NewRequestWithContext(ctx, http.MethodPut, ts.URL+"/v1/style/marker", strings.NewReader(`{"fill": true}`))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	change := readEvent()
	assert.Equal(t, "change", change["event"])
	assert.Equal(t, "1", change["id"])

	var e domain.ChangeEvent
	require.NoError(t, json.Unmarshal([]byte(change["data"]), &e))
	assert.Equal(t, uint64(1), e.Revision)
	assert.Equal(t, domain.LayerGages, e.Layer)
	assert.Equal(t, "marker", e.Param)
}
