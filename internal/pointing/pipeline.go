package pointing

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// Stage names a pipeline step
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageClassify  Stage = "classify"
	StageSplit     Stage = "split"
	StageCorrect   Stage = "correct"
	StageSelect    Stage = "select"
	StageAggregate Stage = "aggregate"
	StageEvents    Stage = "events"
)

// Product is everything a completed reduction hands to table, figure and
// store writers. Renderers need not recompute any derived quantity.
type Product struct {
	FileBase string
	Band     Band

	RowsRead    int
	RowsDropped int

	Selection  *SelectionResult
	Statistics AggregateStatistics
	Events     [2][]CorrectionEvent

	Object    string // OBJECT of the first selected azimuth record
	Day       string // date of the first azimuth record
	Peak      Peak
	Durations [2]time.Duration
	Ticks     TickHint
	Display   Display
}

// Pipeline chains the reduction stages for one band. The zero value is not
// usable; use NewPipeline.
type Pipeline struct {
	band     Band
	sentinel string

	// OnStage, when set, is called after each successful stage
	OnStage func(stage Stage, elapsed time.Duration)
}

// NewPipeline returns a pipeline accepting only logs of the given band
func NewPipeline(band Band, errorSentinel string) *Pipeline {
	if errorSentinel == "" {
		errorSentinel = DefaultErrorSentinel
	}
	return &Pipeline{band: band, sentinel: errorSentinel}
}

// Band returns the band accepted by the pipeline
func (p *Pipeline) Band() Band { return p.band }

// FileBase strips directory and extension from a log path
func FileBase(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (p *Pipeline) stage(s Stage, start time.Time) {
	if p.OnStage != nil {
		p.OnStage(s, time.Since(start))
	}
}

func checkContext(ctx context.Context, fileBase string, next Stage) error {
	if err := ctx.Err(); err != nil {
		return errors.New(fmt.Errorf("reduction cancelled before %s: %w", next, err)).
			Component("pointing").
			Category(errors.CategoryCancellation).
			FileContext(fileBase).
			Build()
	}
	return nil
}

// Run reduces one log. It either returns a complete product or an error
// carrying the file base and the failing condition; there is no partial
// result. The context is checked between stages only.
func (p *Pipeline) Run(ctx context.Context, fileBase string, r io.Reader) (*Product, error) {
	if err := checkContext(ctx, fileBase, StageIngest); err != nil {
		return nil, err
	}
	start := time.Now()
	ingested, err := Ingest(fileBase, r, p.sentinel)
	if err != nil {
		return nil, err
	}
	p.stage(StageIngest, start)

	start = time.Now()
	band, err := Classify(fileBase, ingested.Records, p.band)
	if err != nil {
		return nil, err
	}
	p.stage(StageClassify, start)

	start = time.Now()
	scans, err := Split(fileBase, ingested.Records)
	if err != nil {
		return nil, err
	}
	p.stage(StageSplit, start)

	if err := checkContext(ctx, fileBase, StageCorrect); err != nil {
		return nil, err
	}
	start = time.Now()
	var corrected [2]CorrectedScan
	for _, a := range Axes {
		corrected[a] = Correct(scans[a])
	}
	p.stage(StageCorrect, start)

	start = time.Now()
	sel, err := Select(fileBase, corrected)
	if err != nil {
		return nil, err
	}
	p.stage(StageSelect, start)

	if err := checkContext(ctx, fileBase, StageAggregate); err != nil {
		return nil, err
	}
	start = time.Now()
	product := &Product{
		FileBase:    fileBase,
		Band:        band,
		RowsRead:    ingested.RowsRead,
		RowsDropped: ingested.RowsDropped,
		Selection:   sel,
		Statistics:  Aggregate(sel),
		Object:      sel.Selected[Azimuth].Records[0].Object,
		Day:         ObservationDay(scans[Azimuth].Records[0].Timestamp),
		Peak:        FindPeak(sel),
		Display:     DisplayFor(band),
	}
	for _, a := range Axes {
		product.Durations[a] = Duration(sel.Selected[a])
	}
	product.Ticks = TickHintFor(product.Durations[Azimuth], product.Durations[Elevation])
	p.stage(StageAggregate, start)

	start = time.Now()
	for _, a := range Axes {
		product.Events[a] = DetectEvents(sel.Selected[a])
	}
	p.stage(StageEvents, start)

	return product, nil
}
