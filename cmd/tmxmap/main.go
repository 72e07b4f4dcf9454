package main

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bodgit/tmxmap"
	"github.com/bodgit/tmxmap/indexed"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

const defaultDB = "tmxmap.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func openLibrary(c *cli.Context) (*tmxmap.Library, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return tmxmap.New(c.String("db"), logger)
}

func writePNG(file string, m *tmxmap.Map, colors int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if colors != 0 {
		err = indexed.Encode(f, m.Image, colors)
	} else {
		err = png.Encode(f, m.Image)
	}
	if err != nil {
		return err
	}

	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "tmxmap"
	app.Usage = "TMX tile map compositing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TMXMAP_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Composite a map to a PNG image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write image to `FILE` instead of alongside the map",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "write a paletted image with at most `N` colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				file := c.Args().First()
				m, err := l.Render(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				output := c.String("output")
				if output == "" {
					output = strings.TrimSuffix(file, filepath.Ext(file)) + ".png"
				}

				if err := writePNG(output, m, c.Int("colors")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Show map geometry and properties",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				m, err := l.Render(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("Size:     %dx%d pixels\n", m.Width, m.Height)
				fmt.Printf("Grid:     %dx%d tiles\n", m.Columns, m.Rows)
				fmt.Printf("Tile:     %dx%d pixels\n", m.TileWidth, m.TileHeight)
				fmt.Printf("Tileset:  %s\n", m.Source)

				keys := make([]string, 0, len(m.Properties))
				for k := range m.Properties {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				for _, k := range keys {
					fmt.Printf("Property: %s = %s\n", k, m.Properties[k])
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and cache every map",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "number of maps to render concurrently",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				bar := progressbar.Default(-1, "rendering")
				l.OnRender(func(string) {
					bar.Add(1)
				})

				if err := l.Scan(c.Args().First(), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return bar.Finish()
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
