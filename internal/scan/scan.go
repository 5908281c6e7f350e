// Package scan walks directory trees, runs format detection on every
// matching file and streams the results. It also supports watching a tree
// for changes and re-detecting modified files.
package scan

import (
	"context"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/glob"

	"github.com/mlund/file-format/core/detect"
	"github.com/mlund/file-format/core/errors"
	"github.com/mlund/file-format/core/format"
	"github.com/mlund/file-format/internal/logging"
)

// Options configures a Scanner.
type Options struct {
	// Root is the directory to walk.
	Root string
	// Include holds glob patterns matched against the slash-separated path
	// relative to Root. Empty means every file.
	Include []string
	// Exclude holds glob patterns removing files after Include matching.
	Exclude []string
	// Hash enables content hashing of every scanned file.
	Hash bool
	// Workers is the number of concurrent detection workers. Zero means
	// one per CPU.
	Workers int
}

// Result is the outcome of detecting a single file.
type Result struct {
	Path      string        `json:"path"`
	Size      int64         `json:"size"`
	Format    format.Format `json:"-"`
	Name      string        `json:"format"`
	MediaType string        `json:"media_type"`
	Extension string        `json:"extension"`
	Hash      string        `json:"hash,omitempty"`
	Err       error         `json:"-"`
}

// Scanner walks a tree and detects the format of every matching file.
type Scanner struct {
	opts     Options
	detector *detect.Detector
	include  []glob.Glob
	exclude  []glob.Glob
}

// New validates the options, compiles the glob patterns and returns a
// ready Scanner.
func New(opts Options) (*Scanner, error) {
	if opts.Root == "" {
		return nil, errors.NewValidation("root", "must not be empty")
	}
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, errors.NewIO("stat", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidation("root", "must be a directory")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	s := &Scanner{opts: opts, detector: detect.New(detect.DefaultOptions())}
	for _, p := range opts.Include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, &errors.ValidationError{Field: "include", Message: "invalid glob " + p, Err: err}
		}
		s.include = append(s.include, g)
	}
	for _, p := range opts.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, &errors.ValidationError{Field: "exclude", Message: "invalid glob " + p, Err: err}
		}
		s.exclude = append(s.exclude, g)
	}
	return s, nil
}

// Run walks the tree and sends one Result per matching file on the returned
// channel. The channel is closed when the walk finishes or ctx is canceled.
func (s *Scanner) Run(ctx context.Context) <-chan Result {
	paths := make(chan string)
	results := make(chan Result)

	go func() {
		defer close(paths)
		err := filepath.WalkDir(s.opts.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !s.match(path) {
				return nil
			}
			select {
			case paths <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logging.Error("scan walk failed", "root", s.opts.Root, "error", err)
		}
	}()

	var wg sync.WaitGroup
	wg.Add(s.opts.Workers)
	for i := 0; i < s.opts.Workers; i++ {
		go func() {
			defer wg.Done()
			for path := range paths {
				select {
				case results <- s.detectFile(path):
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// match applies the include and exclude patterns to a path.
func (s *Scanner) match(path string) bool {
	rel, err := filepath.Rel(s.opts.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if len(s.include) > 0 {
		matched := false
		for _, g := range s.include {
			if g.Match(rel) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range s.exclude {
		if g.Match(rel) {
			return false
		}
	}
	return true
}

// detectFile runs detection, and optionally hashing, on a single file.
func (s *Scanner) detectFile(path string) Result {
	res := Result{Path: path}
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		res.Err = errors.NewIO("open", path, err)
		return res
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		res.Size = info.Size()
	}

	detected, err := s.detector.FromReader(f)
	if err != nil {
		res.Err = errors.NewIO("read", path, err)
		return res
	}
	res.Format = detected
	res.Name = detected.Name()
	res.MediaType = detected.MediaType()
	res.Extension = detected.Extension()

	if s.opts.Hash {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			res.Err = errors.NewIO("seek", path, err)
			return res
		}
		h := xxhash.New()
		if _, err := io.Copy(h, f); err != nil {
			res.Err = errors.NewIO("hash", path, err)
			return res
		}
		res.Hash = hex.EncodeToString(h.Sum(nil))
	}

	logging.Detection(path, res.Name, time.Since(start))
	return res
}
