// Package analysis runs pointing reductions for the file and directory
// commands and hands every finished product to the configured outputs.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/datastore"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/figure"
	"github.com/mmatsuo0/qlp/internal/logger"
	"github.com/mmatsuo0/qlp/internal/observability"
	"github.com/mmatsuo0/qlp/internal/observability/metrics"
	"github.com/mmatsuo0/qlp/internal/observation"
	"github.com/mmatsuo0/qlp/internal/pointing"
)

// LoggerFactory hands out module loggers. Both *logger.CentralLogger and
// logger.Logger satisfy it.
type LoggerFactory interface {
	Module(name string) logger.Logger
}

// Result is the outcome of reducing one log file. Exactly one of Product
// and Err is set.
type Result struct {
	Path    string
	RunID   string
	Product *pointing.Product
	Err     error
}

// Analyzer owns the outputs of one command invocation
type Analyzer struct {
	settings *conf.Settings
	band     pointing.Band
	log      logger.Logger
	metrics  *observability.Metrics

	table     *observation.TableWriter
	product   *observation.ProductWriter
	figure    *figure.Writer
	store     datastore.Interface
	storeSink string
}

// New prepares every output enabled in settings and opens the results
// store. The caller must Close the analyzer.
func New(settings *conf.Settings, logs LoggerFactory) (*Analyzer, error) {
	if logs == nil {
		logs = logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, errors.New(err).
			Component("analysis").
			Category(errors.CategoryMetrics).
			Build()
	}

	a := &Analyzer{
		settings: settings,
		band:     pointing.Band(settings.Pointing.Band),
		log:      logs.Module("analysis"),
		metrics:  m,
	}

	out := &settings.Output
	if out.Table.Enabled {
		a.table = observation.NewTableWriter(out.Table.Path)
	}
	if out.Product.Enabled {
		a.product = observation.NewProductWriter(out.Product.Path)
	}
	if out.Figure.Enabled {
		a.figure = figure.NewWriter(out.Figure.Path)
	}

	if store := datastore.New(settings, logs.Module("datastore")); store != nil {
		if err := store.Open(); err != nil {
			return nil, err
		}
		a.store = store
		a.storeSink = metrics.SinkSQLite
		if !out.SQLite.Enabled {
			a.storeSink = metrics.SinkMySQL
		}
	}

	return a, nil
}

// Metrics returns the collectors updated by this analyzer
func (a *Analyzer) Metrics() *observability.Metrics {
	return a.metrics
}

// Close releases the results store and writes the metrics textfile when
// enabled.
func (a *Analyzer) Close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.settings.Output.Metrics.Enabled {
		if err := a.metrics.WriteTextfile(a.settings.Output.Metrics.Path); err != nil {
			errs = append(errs, errors.New(err).
				Component("analysis").
				Category(errors.CategoryMetrics).
				Build())
		}
	}
	return errors.Join(errs...)
}

// reduce reads one log and runs it through a fresh pipeline. It never
// writes outputs.
func (a *Analyzer) reduce(ctx context.Context, path string) *Result {
	res := &Result{Path: path, RunID: uuid.NewString()}
	fileBase := pointing.FileBase(path)
	ctx = logger.WithRunID(ctx, res.RunID)
	log := a.log.WithContext(ctx).With(logger.String("file", fileBase))

	a.metrics.Pipeline.ActiveReductions.Inc()
	defer a.metrics.Pipeline.ActiveReductions.Dec()

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = errors.New(fmt.Errorf("failed to read log: %w", err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			FileContext(fileBase).
			Build()
		a.recordFailure(log, res.Err)
		return res
	}

	p := pointing.NewPipeline(a.band, a.settings.Pointing.ErrorSentinel)
	p.OnStage = func(stage pointing.Stage, elapsed time.Duration) {
		a.metrics.Pipeline.RecordStage(string(stage), elapsed.Seconds())
		log.Trace("stage completed",
			logger.String("stage", string(stage)),
			logger.Duration("elapsed", elapsed))
	}

	start := time.Now()
	product, err := p.Run(ctx, fileBase, bytes.NewReader(data))
	if err != nil {
		res.Err = err
		a.recordFailure(log, err)
		return res
	}
	res.Product = product

	a.metrics.Pipeline.RecordRows(product.RowsRead, product.RowsDropped)
	a.metrics.Pipeline.RecordRun(string(a.band), nil, "")

	st := &product.Statistics
	log.Info("log reduced",
		logger.String("band", string(product.Band)),
		logger.String("array", product.Selection.Array),
		logger.Int("rows_read", product.RowsRead),
		logger.Int("rows_dropped", product.RowsDropped),
		logger.Float64("daz", st.FinalCorrection[pointing.Azimuth]),
		logger.Float64("del", st.FinalCorrection[pointing.Elevation]),
		logger.Float64("sn", st.SignalToNoise),
		logger.Duration("elapsed", time.Since(start)))
	return res
}

func (a *Analyzer) recordFailure(log logger.Logger, err error) {
	category := errors.CategoryOf(err)
	a.metrics.Pipeline.RecordRun(string(a.band), err, string(category))
	log.Error("reduction failed",
		logger.String("category", string(category)),
		logger.Error(err))
}

// publish hands a completed product to every enabled output. A failing
// output does not stop the others; their errors are joined.
func (a *Analyzer) publish(ctx context.Context, res *Result) error {
	p := res.Product
	if p == nil {
		return nil
	}
	log := a.log.WithContext(logger.WithRunID(ctx, res.RunID)).With(logger.String("file", p.FileBase))

	var errs []error
	write := func(sink string, fn func() (string, error)) {
		start := time.Now()
		path, err := fn()
		a.metrics.Sinks.RecordWrite(sink, time.Since(start).Seconds(), err)
		if err != nil {
			log.Error("output failed", logger.String("sink", sink), logger.Error(err))
			errs = append(errs, err)
			return
		}
		log.Debug("output written", logger.String("sink", sink), logger.String("path", path))
	}

	if a.table != nil {
		write(metrics.SinkTable, func() (string, error) {
			return a.table.Path(p.Band), a.table.Write(p)
		})
	}
	if a.product != nil {
		write(metrics.SinkProduct, func() (string, error) { return a.product.Write(p) })
	}
	if a.figure != nil {
		write(metrics.SinkFigure, func() (string, error) { return a.figure.Write(p) })
	}
	if a.store != nil {
		write(a.storeSink, func() (string, error) {
			return res.RunID, a.store.Save(ctx, datastore.NewReduction(res.RunID, p))
		})
	}
	return errors.Join(errs...)
}

// validateInput checks that path exists and is (or is not) a directory
func validateInput(path string, wantDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.New(fmt.Errorf("error accessing %s: %w", filepath.Base(path), err)).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	switch {
	case wantDir && !info.IsDir():
		return errors.Newf("the path %s is not a directory", path).
			Component("analysis").
			Category(errors.CategoryValidation).
			Build()
	case !wantDir && info.IsDir():
		return errors.Newf("the path %s is a directory, not a file", path).
			Component("analysis").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
