package analysis

import (
	"context"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/pointing"
)

// FileAnalysis reduces the log at settings.Input.Path and writes the
// enabled outputs.
func FileAnalysis(ctx context.Context, settings *conf.Settings, logs LoggerFactory) (err error) {
	if err := validateInput(settings.Input.Path, false); err != nil {
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

	_, err = a.File(ctx, settings.Input.Path)
	return err
}

// File reduces one log and publishes its product. Outputs are only written
// for a complete product.
func (a *Analyzer) File(ctx context.Context, path string) (*pointing.Product, error) {
	res := a.reduce(ctx, path)
	if res.Err != nil {
		return nil, res.Err
	}
	if err := a.publish(ctx, res); err != nil {
		return res.Product, err
	}
	return res.Product, nil
}
