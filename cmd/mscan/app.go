package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"monochrome/internal/config"
	"monochrome/internal/coverart"
	"monochrome/internal/logging"
	"monochrome/internal/scanner"
	"monochrome/internal/tags"
	"os"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const appSlug = "monochrome"

type configLoader func(appSlug string) (config.Config, error)

// runtime is built once per invocation in the app's Before hook.
type runtime struct {
	out     io.Writer
	load    configLoader
	logger  zerolog.Logger
	reader  *tags.Reader
	scanner *scanner.Service
}

// TagReport is the output of the tags command. Errors are reported as text
// so the diagnosis survives JSON encoding.
type TagReport struct {
	Path string `json:"path"`
	tags.Metadata
	TagError   string             `json:"tagError,omitempty"`
	Cover      *coverart.CoverArt `json:"cover"`
	CoverError string             `json:"coverError,omitempty"`
}

func newApp(out io.Writer, load configLoader) *cli.App {
	rt := &runtime{out: out, load: load}

	return &cli.App{
		Name:  "mscan",
		Usage: "Scan folders for music and inspect embedded tags without the desktop UI.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-dir",
				Usage: "application base directory used by local and backgrounds",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level written to stderr (overrides MONOCHROME_LOG_LEVEL)",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a spinner while scanning",
			},
		},
		Before: rt.setup,
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "Scan a directory recursively for audio files",
				ArgsUsage: "<dir>",
				Action: func(c *cli.Context) error {
					root, err := requireArg(c, "directory")
					if err != nil {
						return err
					}
					return rt.scan(c, "Scanning "+root, func() ([]scanner.Track, error) {
						return rt.scanner.ScanDirectory(root)
					})
				},
			},
			{
				Name:  "local",
				Usage: "Scan the application base directory",
				Action: func(c *cli.Context) error {
					return rt.scan(c, "Scanning "+rt.scanner.AppDir(), rt.scanner.ScanLocal)
				},
			},
			{
				Name:      "files",
				Usage:     "Scan a mixed list of files and directories",
				ArgsUsage: "<path>...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("at least one path is required")
					}
					paths := c.Args().Slice()
					return rt.scan(c, "Scanning files", func() ([]scanner.Track, error) {
						return rt.scanner.ScanFiles(paths)
					})
				},
			},
			{
				Name:      "cover",
				Usage:     "Print the first supported embedded cover as base64",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					path, err := requireArg(c, "file")
					if err != nil {
						return err
					}
					return rt.writeJSON(rt.reader.ReadCover(path))
				},
			},
			{
				Name:      "tags",
				Usage:     "Explain what the tag reader sees in a file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					path, err := requireArg(c, "file")
					if err != nil {
						return err
					}
					return rt.writeJSON(rt.tagReport(path))
				},
			},
			{
				Name:      "backgrounds",
				Usage:     "List background images, from the base directory or a given folder",
				ArgsUsage: "[dir]",
				Action: func(c *cli.Context) error {
					if dir := strings.TrimSpace(c.Args().First()); dir != "" {
						paths, err := rt.scanner.ListBackgroundsIn(dir)
						if err != nil {
							return err
						}
						return rt.writeJSON(paths)
					}

					backgrounds, err := rt.scanner.ListBackgrounds()
					if err != nil {
						return err
					}
					return rt.writeJSON(backgrounds)
				},
			},
		},
	}
}

func (rt *runtime) setup(c *cli.Context) error {
	cfg, err := rt.load(appSlug)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	rt.logger = logging.New(level, os.Stderr)

	paths := cfg.Paths
	if override := strings.TrimSpace(c.String("base-dir")); override != "" {
		if paths, err = paths.WithBaseDir(override); err != nil {
			return err
		}
	}

	rt.reader = tags.NewReader(rt.logger)
	rt.scanner = scanner.NewService(paths, rt.reader, rt.logger)
	return nil
}

func (rt *runtime) scan(c *cli.Context, title string, run func() ([]scanner.Track, error)) error {
	var tracks []scanner.Track
	action := func(context.Context) error {
		var err error
		tracks, err = run()
		return err
	}

	var err error
	if c.Bool("progress") {
		err = spinner.New().Title(title).Context(c.Context).ActionWithErr(action).Run()
	} else {
		err = action(c.Context)
	}
	if err != nil {
		return err
	}

	return rt.writeJSON(tracks)
}

func (rt *runtime) tagReport(path string) TagReport {
	report := TagReport{Path: path}

	metadata, err := rt.reader.Read(path)
	if err != nil {
		report.TagError = err.Error()
	}
	report.Metadata = metadata

	cover, err := rt.reader.Cover(path)
	if err != nil {
		report.CoverError = err.Error()
	}
	report.Cover = cover

	return report
}

func (rt *runtime) writeJSON(value any) error {
	encoder := json.NewEncoder(rt.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func requireArg(c *cli.Context, name string) (string, error) {
	value := strings.TrimSpace(c.Args().First())
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}
