package analysis

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/logger"
)

const (
	// logExt is the extension of pointing logs, compared case-insensitively
	logExt = ".txt"

	maxWorkers = 8
)

// Summary is the outcome of a directory run in file name order
type Summary struct {
	Results []*Result
	Reduced int
	Failed  int
}

// DirectoryAnalysis reduces every pointing log in settings.Input.Path.
// Each log gets its own pipeline; the command fails when any log failed.
func DirectoryAnalysis(ctx context.Context, settings *conf.Settings, logs LoggerFactory) (err error) {
	if err := validateInput(settings.Input.Path, true); err != nil {
		return err
	}

	a, err := New(settings, logs)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	_, err = a.Directory(ctx, settings.Input.Path, settings.Input.Recursive)
	return err
}

// Directory reduces the logs of dir with up to Threads concurrent
// pipelines, then publishes the products sequentially in file name order
// so append-only outputs are deterministic.
func (a *Analyzer) Directory(ctx context.Context, dir string, recursive bool) (*Summary, error) {
	paths, err := collectLogs(dir, recursive, a.outputDirs())
	if err != nil {
		return nil, err
	}
	log := a.log.Module("directory").With(logger.String("dir", dir))
	if len(paths) == 0 {
		log.Warn("no pointing logs found")
		return &Summary{}, nil
	}

	workers := workerCount(a.settings.Threads)
	log.Info("directory analysis started",
		logger.Int("files", len(paths)),
		logger.Int("workers", workers))
	start := time.Now()

	results := make([]*Result, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = a.reduce(ctx, path)
			return nil
		})
	}
	_ = g.Wait() // reduce reports failures in its result

	summary := &Summary{Results: results}
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			continue
		}
		summary.Reduced++
		if err := a.publish(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info("directory analysis completed",
		logger.Int("files", len(paths)),
		logger.Int("reduced", summary.Reduced),
		logger.Int("failed", summary.Failed),
		logger.Duration("elapsed", time.Since(start)))

	if summary.Failed > 0 {
		errs = append([]error{fmt.Errorf("%w: %d of %d", ErrLogsFailed, summary.Failed, len(paths))}, errs...)
	}
	return summary, errors.Join(errs...)
}

// outputDirs lists the enabled output directories, which are never
// scanned for logs
func (a *Analyzer) outputDirs() []string {
	out := &a.settings.Output
	var dirs []string
	for _, o := range []conf.OutputDir{out.Table, out.Product, out.Figure} {
		if o.Enabled && o.Path != "" {
			dirs = append(dirs, o.Path)
		}
	}
	return dirs
}

// collectLogs returns the sorted *.txt files of dir. Subdirectories are
// only entered when recursive is set; directories in skip are never
// entered.
func collectLogs(dir string, recursive bool, skip []string) ([]string, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !recursive {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), logExt) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to scan directory: %w", err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}

	slices.Sort(paths)
	return paths, nil
}

// workerCount maps the threads setting onto 1..maxWorkers; 0 means one
// worker per CPU
func workerCount(threads int) int {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return clampInt(threads, 1, maxWorkers)
}

// clampInt ensures a value is between min and max (inclusive)
func clampInt(value, minValue, maxValue int) int {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
