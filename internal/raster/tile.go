package raster

import (
	"bytes"
	"context"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/style"
)

// TileRequest is one encoded data tile to recolor with a fixed style snapshot.
type TileRequest struct {
	Layer    domain.Layer
	Zoom     int
	Snapshot style.Snapshot
	Body     []byte
}

// RenderTile decodes req.Body, runs the layer pass, and returns the result as PNG.
func (r *Renderer) RenderTile(ctx context.Context, req TileRequest) ([]byte, error) {
	src, err := Decode(bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	dst, err := r.Render(ctx, req.Layer, src, req.Snapshot, req.Zoom)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
