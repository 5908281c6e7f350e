// Command fileformat is the CLI tool for file format detection.
// It provides commands for detecting single files, scanning directory
// trees, listing the known formats and serving a detection API.
package main

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/mlund/file-format/core/detect"
	"github.com/mlund/file-format/core/errors"
	"github.com/mlund/file-format/core/format"
	"github.com/mlund/file-format/internal/api"
	"github.com/mlund/file-format/internal/inventory"
	"github.com/mlund/file-format/internal/logging"
	"github.com/mlund/file-format/internal/scan"
)

const version = "0.1.0"

// CLI defines the command-line interface for fileformat.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Detect  DetectCmd  `cmd:"" help:"Detect the format of one or more files"`
	Scan    ScanCmd    `cmd:"" help:"Scan a directory tree and detect every file"`
	Formats FormatsCmd `cmd:"" help:"List all detectable formats"`
	Serve   ServeCmd   `cmd:"" help:"Start the REST API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// DetectCmd detects the format of individual files.
type DetectCmd struct {
	Paths []string `arg:"" help:"Paths to files to detect" type:"existingfile"`
	JSON  bool     `help:"Emit one JSON object per file"`
	Hash  bool     `help:"Include a BLAKE3 content digest"`
	Inner bool     `help:"For gzip/xz/bzip2 files, also detect the decompressed content"`
}

// detectReport is the JSON output shape of the detect command.
type detectReport struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	ShortName string `json:"short_name,omitempty"`
	MediaType string `json:"media_type"`
	Extension string `json:"extension"`
	Kind      string `json:"kind"`
	Hash      string `json:"hash,omitempty"`
	Inner     string `json:"inner_format,omitempty"`
}

func (c *DetectCmd) Run() error {
	enc := json.NewEncoder(os.Stdout)
	for _, path := range c.Paths {
		report, err := c.detectOne(path)
		if err != nil {
			return err
		}
		if c.JSON {
			if err := enc.Encode(report); err != nil {
				return err
			}
			continue
		}
		fmt.Printf("%s: %s (%s)\n", report.Path, report.Format, report.MediaType)
		if report.Inner != "" {
			fmt.Printf("  contains: %s\n", report.Inner)
		}
		if report.Hash != "" {
			fmt.Printf("  blake3: %s\n", report.Hash)
		}
	}
	return nil
}

func (c *DetectCmd) detectOne(path string) (detectReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return detectReport{}, errors.NewIO("open", path, err)
	}
	defer f.Close()

	detected, err := detect.FromReader(f)
	if err != nil {
		return detectReport{}, errors.NewIO("read", path, err)
	}

	report := detectReport{
		Path:      path,
		Format:    detected.Name(),
		ShortName: detected.ShortName(),
		MediaType: detected.MediaType(),
		Extension: detected.Extension(),
		Kind:      detected.Kind().String(),
	}

	if c.Inner {
		if inner, ok, err := detectInner(f, detected); err != nil {
			return detectReport{}, err
		} else if ok {
			report.Inner = inner.Name()
		}
	}

	if c.Hash {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return detectReport{}, errors.NewIO("seek", path, err)
		}
		h := blake3.New()
		if _, err := io.Copy(h, f); err != nil {
			return detectReport{}, errors.NewIO("hash", path, err)
		}
		report.Hash = hex.EncodeToString(h.Sum(nil))
	}
	return report, nil
}

// innerPeekLimit bounds how much decompressed content is examined.
const innerPeekLimit = 1 << 20

// detectInner decompresses a bounded prefix of a single-stream compressed
// file and detects the format of its content.
func detectInner(f *os.File, outer format.Format) (format.Format, bool, error) {
	var open func(io.Reader) (io.Reader, error)
	switch outer {
	case format.Gzip:
		open = func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }
	case format.Xz:
		open = func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }
	case format.Bzip2:
		open = func(r io.Reader) (io.Reader, error) { return bzip2.NewReader(r), nil }
	default:
		return 0, false, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, false, errors.NewIO("seek", f.Name(), err)
	}
	dec, err := open(f)
	if err != nil {
		// Corrupt compressed data is not a CLI failure; there is simply
		// no inner format to report.
		return 0, false, nil
	}
	peek, err := io.ReadAll(io.LimitReader(dec, innerPeekLimit))
	if err != nil && len(peek) == 0 {
		return 0, false, nil
	}
	return detect.FromBytes(peek), true, nil
}

// ScanCmd walks a directory tree and detects every matching file.
type ScanCmd struct {
	Root    string   `arg:"" help:"Directory to scan" type:"existingdir"`
	Include []string `help:"Glob patterns to include (relative to root)"`
	Exclude []string `help:"Glob patterns to exclude"`
	Hash    bool     `help:"Include an xxHash content digest per file"`
	JSON    bool     `help:"Emit one JSON object per file"`
	Watch   bool     `help:"Keep watching the tree after the initial scan"`
	DB      string   `help:"Record results in an inventory database at this path" type:"path"`
	Workers int      `help:"Concurrent detection workers (0 = one per CPU)"`
}

func (c *ScanCmd) Run() error {
	s, err := scan.New(scan.Options{
		Root:    c.Root,
		Include: c.Include,
		Exclude: c.Exclude,
		Hash:    c.Hash,
		Workers: c.Workers,
	})
	if err != nil {
		return err
	}

	var store *inventory.Store
	if c.DB != "" {
		store, err = inventory.Open(c.DB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count, err := c.consume(ctx, s.Run(ctx), store)
	if err != nil {
		return err
	}
	logging.ScanEvent("completed", c.Root, count)

	if c.Watch {
		events, err := s.Watch(ctx)
		if err != nil {
			return err
		}
		if _, err := c.consume(ctx, events, store); err != nil {
			return err
		}
	}
	return nil
}

func (c *ScanCmd) consume(ctx context.Context, results <-chan scan.Result, store *inventory.Store) (int, error) {
	enc := json.NewEncoder(os.Stdout)
	count := 0
	for res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			continue
		}
		count++
		if c.JSON {
			if err := enc.Encode(res); err != nil {
				return count, err
			}
		} else {
			fmt.Printf("%s: %s\n", res.Path, res.Name)
		}
		if store != nil {
			if err := store.PutResult(ctx, res); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

// FormatsCmd lists every detectable format.
type FormatsCmd struct {
	JSON bool   `help:"Emit the format list as JSON"`
	Kind string `help:"Only list formats of this kind"`
}

type formatRow struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	MediaType string `json:"media_type"`
	Extension string `json:"extension"`
	Kind      string `json:"kind"`
}

func (c *FormatsCmd) Run() error {
	rows := make([]formatRow, 0, format.Count())
	for f := format.Format(0); int(f) < format.Count(); f++ {
		if c.Kind != "" && f.Kind().String() != c.Kind {
			continue
		}
		rows = append(rows, formatRow{
			Name:      f.Name(),
			ShortName: f.ShortName(),
			MediaType: f.MediaType(),
			Extension: f.Extension(),
			Kind:      f.Kind().String(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSHORT\tMEDIA TYPE\tEXT\tKIND")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.ShortName, r.MediaType, r.Extension, r.Kind)
	}
	return w.Flush()
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port   int      `default:"8080" help:"Port to listen on"`
	DB     string   `help:"Inventory database backing the records endpoints" type:"path"`
	Origin []string `help:"Allowed CORS origins (empty = allow all)"`
	Cert   string   `help:"TLS certificate file" type:"path"`
	Key    string   `help:"TLS private key file" type:"path"`
}

func (c *ServeCmd) Run() error {
	cfg := api.Config{
		Port:           c.Port,
		InventoryPath:  c.DB,
		AllowedOrigins: c.Origin,
	}
	if c.Cert != "" || c.Key != "" {
		cfg.TLS = api.TLSConfig{Enabled: true, CertFile: c.Cert, KeyFile: c.Key}
	}
	return api.Start(cfg)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("fileformat version %s\n", version)
	return nil
}

func initLogging() {
	level := map[string]logging.Level{
		"debug": logging.LevelDebug,
		"info":  logging.LevelInfo,
		"warn":  logging.LevelWarn,
		"error": logging.LevelError,
	}[CLI.LogLevel]
	logFormat := logging.FormatText
	if CLI.LogFormat == "json" {
		logFormat = logging.FormatJSON
	}
	logging.InitLogger(level, logFormat)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fileformat"),
		kong.Description("Two-stage file format detection for files, trees and services"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	initLogging()
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
