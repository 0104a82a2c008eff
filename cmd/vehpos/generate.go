package main

import (
	"fmt"

	"github.com/hupe1980/vehpos"
	"github.com/hupe1980/vehpos/compress"
	"github.com/hupe1980/vehpos/record"
	"github.com/hupe1980/vehpos/testutil"
	"github.com/urfave/cli/v2"
)

func generateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "output file or blob name; a .zst or .lz4 suffix selects compression",
			Value:   vehpos.DefaultFileName,
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of records",
			Value:   2_000_000,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed; equal seeds produce identical files",
			Value: 42,
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "override compression detection: none, zstd or lz4",
		},
	}

	return &cli.Command{
		Name:   "generate",
		Usage:  "write a synthetic dataset of vehicles across the continental US",
		Flags:  append(flags, storeFlags()...),
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	if c.Int("count") < 0 {
		return fmt.Errorf("--count must not be negative")
	}

	store, name, err := openStore(c, c.String("file"))
	if err != nil {
		return err
	}

	ctype := compress.FromName(name)
	if s := c.String("compression"); s != "" {
		if ctype, err = compress.Parse(s); err != nil {
			return err
		}
	}

	rng := testutil.NewRNG(c.Int64("seed"))
	data, err := record.Encode(rng.Vehicles(c.Int("count"), testutil.ContinentalUS))
	if err != nil {
		return err
	}
	raw := len(data)

	if data, err = compress.Compress(data, ctype); err != nil {
		return err
	}

	if err := store.Put(c.Context, name, data); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d records to %s (%d bytes, %s, %d bytes stored)\n",
		c.Int("count"), name, raw, ctype, len(data))
	return nil
}
