package analysis

import "github.com/mmatsuo0/qlp/internal/errors"

// ErrLogsFailed is returned by directory analysis when at least one log
// could not be reduced
var ErrLogsFailed = errors.NewStd("pointing logs failed to reduce")
