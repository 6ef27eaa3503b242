package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	"github.com/couchcryptid/flowline-styler/internal/style"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli"
)

var errUsage = errors.New("expected <in.png> <out.png>")

func runClip(c *cli.Context) error {
	return recolor(c, func(store *style.Store) error {
		if err := applyView(c, store); err != nil {
			return err
		}
		u, err := colorUpdate(c.String("highlight"), c, "highlight-alpha")
		if err != nil {
			return err
		}
		return store.UpdateHighlight(u)
	}, domain.LayerFlowlines)
}

func runDecile(c *cli.Context) error {
	return recolor(c, func(store *style.Store) error {
		var u style.RangeUpdate
		if c.IsSet("min") {
			u.Min = intPtr(c.Int("min"))
		}
		if c.IsSet("max") {
			u.Max = intPtr(c.Int("max"))
		}
		if c.IsSet("invert") {
			invert := c.BoolT("invert")
			u.Invert = &invert
		}
		return store.UpdateRange(u)
	}, domain.LayerDeciles)
}

func runGages(c *cli.Context) error {
	return recolor(c, func(store *style.Store) error {
		if err := applyView(c, store); err != nil {
			return err
		}
		cu, err := colorUpdate(c.String("marker-color"), c, "marker-alpha")
		if err != nil {
			return err
		}
		u := style.MarkerUpdate{ColorUpdate: cu}
		if c.IsSet("radius") {
			u.Radius = intPtr(c.Int("radius"))
		}
		if c.IsSet("fill") {
			fill := c.Bool("fill")
			u.Fill = &fill
		}
		return store.UpdateMarker(u)
	}, domain.LayerGages)
}

// recolor loads the style, lets configure adjust it, renders the input tile
// for layer and writes the result.
func recolor(c *cli.Context, configure func(*style.Store) error, layer domain.Layer) error {
	if c.NArg() != 2 {
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return errUsage
	}
	in, out := c.Args().Get(0), c.Args().Get(1)

	store, err := loadStore(c)
	if err != nil {
		return err
	}
	if err := configure(store); err != nil {
		return fmt.Errorf("%s: %w", layer, err)
	}
	snap := store.Snapshot()

	src, err := readTile(in)
	if err != nil {
		return err
	}

	ctx := context.Background()
	r := raster.NewRenderer(c.GlobalInt("workers"))
	if layer == domain.LayerGages {
		dst, drawn, err := r.Gages(ctx, src, snap, snap.Zoom)
		if err != nil {
			return err
		}
		slog.Info("markers drawn", "count", drawn, "threshold", snap.Threshold)
		return writeTile(out, dst)
	}
	dst, err := r.Render(ctx, layer, src, snap, snap.Zoom)
	if err != nil {
		return err
	}
	return writeTile(out, dst)
}

func loadStore(c *cli.Context) (*style.Store, error) {
	p := style.DefaultPreset()
	if path := c.GlobalString("preset"); path != "" {
		var err error
		if p, err = style.LoadPreset(path); err != nil {
			return nil, err
		}
	}
	return style.NewStore(p)
}

// applyView moves the view zoom, which loads that zoom's table value as the
// active threshold, then overrides the active threshold. The table itself is
// never written.
func applyView(c *cli.Context, store *style.Store) error {
	if c.IsSet("zoom") {
		if err := store.SetZoom(c.Int("zoom")); err != nil {
			return fmt.Errorf("zoom: %w", err)
		}
	}
	if c.IsSet("threshold") {
		if err := store.SetThreshold(c.Int("threshold")); err != nil {
			return fmt.Errorf("threshold: %w", err)
		}
	}
	return nil
}

func colorUpdate(hex string, c *cli.Context, alphaFlag string) (style.ColorUpdate, error) {
	var u style.ColorUpdate
	if hex != "" {
		col, err := colorful.Hex(hex)
		if err != nil {
			return u, fmt.Errorf("parse color %q: %w", hex, err)
		}
		r, g, b := col.RGB255()
		u.R, u.G, u.B = intPtr(int(r)), intPtr(int(g)), intPtr(int(b))
	}
	if c.IsSet(alphaFlag) {
		u.A = intPtr(c.Int(alphaFlag))
	}
	return u, nil
}

func readTile(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return raster.Decode(f)
}

func writeTile(path string, img *image.NRGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return raster.EncodePNG(f, img)
}

func intPtr(v int) *int { return &v }
