// Command vehpos finds the vehicle nearest to each of a fixed set of
// positions in a binary vehicle position file.
//
// Usage:
//
//	vehpos find --file VehiclePositions.dat
//	vehpos find --store s3 --bucket fleet --file positions.dat.zst --output json
//	vehpos generate --count 2000000 --file VehiclePositions.dat
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vehpos:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "vehpos",
		Usage:          "Nearest-vehicle lookup over binary position files",
		Writer:         stdout,
		ErrWriter:      stderr,
		DefaultCommand: "find",
		Commands: []*cli.Command{
			findCommand(),
			generateCommand(),
		},
	}
}
