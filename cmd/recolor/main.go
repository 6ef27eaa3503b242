// Command recolor applies the flowline, decile and gage classifiers to data
// tiles on disk, without running the service.
//
// Usage:
//
//	recolor mock --layer flowlines tile.png
//	recolor clip --zoom 4 --threshold 5 tile.png out.png
//	recolor decile --min 10 --max 90 --invert=false tile.png out.png
//	recolor gages --radius 6 --fill --marker-color '#ff0000' tile.png out.png
//	recolor ramp
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("recolor failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "recolor"
	app.Usage = "recolor encoded hydrography data tiles"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "TOML style preset applied before any flag",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "Goroutines per tile (0 = GOMAXPROCS)",
			Value: 0,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "clip",
			Usage:     "Highlight flowlines whose stream order passes the threshold",
			ArgsUsage: "<in.png> <out.png>",
			Flags: []cli.Flag{
				zoomFlag,
				thresholdFlag,
				cli.StringFlag{Name: "highlight", Usage: "Highlight color as #rrggbb"},
				cli.IntFlag{Name: "highlight-alpha", Usage: "Highlight alpha (0-255)"},
			},
			Action: runClip,
		},
		{
			Name:      "decile",
			Usage:     "Color percentile ranks on the jet ramp",
			ArgsUsage: "<in.png> <out.png>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "min", Usage: "Lowest percentile on the ramp (0-100)"},
				cli.IntFlag{Name: "max", Usage: "Highest percentile on the ramp (0-100)"},
				cli.BoolTFlag{Name: "invert", Usage: "Put high percentiles at the blue end"},
			},
			Action: runDecile,
		},
		{
			Name:      "gages",
			Usage:     "Draw markers over gages whose stream order passes the threshold",
			ArgsUsage: "<in.png> <out.png>",
			Flags: []cli.Flag{
				zoomFlag,
				thresholdFlag,
				cli.StringFlag{Name: "marker-color", Usage: "Marker color as #rrggbb"},
				cli.IntFlag{Name: "marker-alpha", Usage: "Marker alpha (0-255)"},
				cli.IntFlag{Name: "radius", Usage: "Marker radius in pixels (0-10)"},
				cli.BoolFlag{Name: "fill", Usage: "Fill markers instead of stroking them"},
			},
			Action: runGages,
		},
		{
			Name:   "ramp",
			Usage:  "Print the jet ramp for coefficients 0.0 to 1.0",
			Action: runRamp,
		},
		{
			Name:      "mock",
			Usage:     "Write a synthetic data tile",
			ArgsUsage: "<out.png>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "layer", Usage: "flowlines, deciles or gages", Value: "flowlines"},
				cli.IntFlag{Name: "size", Usage: "Tile width and height", Value: 256},
				cli.IntFlag{Name: "features", Usage: "Number of lines or gages", Value: 24},
				cli.Int64Flag{Name: "seed", Usage: "Random seed", Value: 1},
			},
			Action: runMock,
		},
	}
	return app
}

var (
	zoomFlag = cli.IntFlag{
		Name:  "zoom",
		Usage: "View zoom level (0-20); selects the threshold table slot",
	}
	thresholdFlag = cli.IntFlag{
		Name:  "threshold",
		Usage: "Stream order threshold at the view zoom (1-7)",
	}
)
