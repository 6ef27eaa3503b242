package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const revisionHeader = "X-Style-Revision"

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	layer, err := domain.ParseLayer(r.PathValue("layer"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	zoom, err := strconv.Atoi(r.PathValue("z"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid zoom"))
		return
	}
	if err := domain.ValidateLevel(zoom); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxTileBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := s.store.Snapshot()
	start := time.Now()
	out, err := s.tiles.RenderTile(r.Context(), raster.TileRequest{
		Layer:    layer,
		Zoom:     zoom,
		Snapshot: snap,
		Body:     body,
	})
	s.metrics.RenderDuration.WithLabelValues(string(layer)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.TilesRendered.WithLabelValues(string(layer), "error").Inc()
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("render tile failed", "layer", layer, "zoom", zoom, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.metrics.TilesRendered.WithLabelValues(string(layer), "success").Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set(revisionHeader, strconv.FormatUint(snap.Revision, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Debug("write tile failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
