package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/style"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// styleResponse is the snapshot plus the derived marker CSS color.
type styleResponse struct {
	style.Snapshot
	MarkerCSS string `json:"marker_css"`
}

type valueRequest[T any] struct {
	Value *T `json:"value"`
}

var errMissingValue = errors.New(`missing "value"`)

func (s *Server) handleGetStyle(w http.ResponseWriter, _ *http.Request) {
	s.writeStyle(w)
}

func (s *Server) handleThreshold(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue[int](w, r)
	if !ok {
		return
	}
	s.apply(w, s.store.SetThreshold(v))
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue[int](w, r)
	if !ok {
		return
	}
	s.apply(w, s.store.SetZoom(v))
}

func (s *Server) handleThresholdForZoom(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrLevelOutOfRange)
		return
	}
	v, ok := decodeValue[int](w, r)
	if !ok {
		return
	}
	s.apply(w, s.store.SetThresholdForZoom(level, v))
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue[bool](w, r)
	if !ok {
		return
	}
	s.apply(w, s.store.SetLock(v))
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	var u style.RangeUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	s.apply(w, s.store.UpdateRange(u))
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var u style.ColorUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	s.apply(w, s.store.UpdateHighlight(u))
}

func (s *Server) handleMarker(w http.ResponseWriter, r *http.Request) {
	var u style.MarkerUpdate
	if !decodeBody(w, r, &u) {
		return
	}
	s.apply(w, s.store.UpdateMarker(u))
}

// apply answers a mutation: 400 for a rejected parameter, otherwise the
// resulting style.
func (s *Server) apply(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.writeStyle(w)
}

func (s *Server) writeStyle(w http.ResponseWriter) {
	snap := s.store.Snapshot()
	w.Header().Set(revisionHeader, strconv.FormatUint(snap.Revision, 10))
	sharedobs.WriteJSON(w, http.StatusOK, styleResponse{Snapshot: snap, MarkerCSS: snap.MarkerCSS()})
}

func statusFor(err error) int {
	for _, target := range []error{
		domain.ErrLevelOutOfRange,
		domain.ErrThresholdOutOfRange,
		domain.ErrChannelOutOfRange,
		domain.ErrUnknownChannel,
		domain.ErrRadiusOutOfRange,
		domain.ErrRangeOutOfBounds,
		domain.ErrDegenerateRange,
		domain.ErrUnknownLayer,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func decodeValue[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req valueRequest[T]
	if !decodeBody(w, r, &req) {
		var zero T
		return zero, false
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, errMissingValue)
		var zero T
		return zero, false
	}
	return *req.Value, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}
	return true
}
