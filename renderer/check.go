package renderer

import (
	"fmt"

	"go.uber.org/zap"
)

// GraphicsError wraps a failed graphics operation.
type GraphicsError struct {
	Op  string
	Err error
}

func (e *GraphicsError) Error() string {
	return fmt.Sprintf("%s: graphics error: %v", e.Op, e.Err)
}

func (e *GraphicsError) Unwrap() error {
	return e.Err
}

// Check logs and wraps err, naming the operation that produced it. It returns
// nil when err is nil, so it can sit directly after every graphics call.
func Check(logger *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if logger != nil {
		logger.Error("graphics call failed", zap.String("op", op), zap.Error(err))
	}
	return &GraphicsError{Op: op, Err: err}
}
