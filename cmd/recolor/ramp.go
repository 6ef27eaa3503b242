package main

import (
	"fmt"
	"math"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/urfave/cli"
)

// runRamp prints the jet color at each tenth of the ramp as "coef #RRGGBB".
func runRamp(c *cli.Context) error {
	for i := 0; i <= 10; i++ {
		coef := float64(i) / 10
		r, g, b := domain.Jet(coef * 4)
		if _, err := fmt.Fprintf(c.App.Writer, "%f #%02X%02X%02X\n", coef, rampByte(r), rampByte(g), rampByte(b)); err != nil {
			return err
		}
	}
	return nil
}

func rampByte(v float64) uint8 { return uint8(math.Round(v * 255)) }
