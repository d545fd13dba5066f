package errors

import (
	"errors"
	"fmt"
	"io"
)

// define error types for the stream adapter and foreign boundary
var (
	ErrStream = errors.New("stream error")
	ErrBridge = errors.New("bridge error")

	ErrStreamRead   = fmt.Errorf("%w: %v", ErrStream, "read failed")
	ErrStreamSeek   = fmt.Errorf("%w: %v", ErrStream, "seek failed")
	ErrStreamTell   = fmt.Errorf("%w: %v", ErrStream, "tell failed")
	ErrStreamSize   = fmt.Errorf("%w: %v", ErrStream, "size query failed")
	ErrNegativeSize = fmt.Errorf("%w: %v", ErrStream, "negative size")
	ErrNilSource    = fmt.Errorf("%w: %v", ErrStream, "nil source")
	ErrPositionLost = fmt.Errorf("%w: %v", ErrStream, "position lost")

	ErrAlloc   = fmt.Errorf("%w: %v", ErrBridge, "allocation failed")
	ErrClosed  = fmt.Errorf("%w: %v", ErrBridge, "use of closed record")
	ErrNilFunc = fmt.Errorf("%w: %v", ErrBridge, "null function pointer")
)

// IsErrorEOF verifies error
func IsErrorEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// IsErrorStream verifies error
func IsErrorStream(err error) bool {
	return errors.Is(err, ErrStream)
}

// IsErrorPositionLost verifies error
func IsErrorPositionLost(err error) bool {
	return errors.Is(err, ErrPositionLost)
}

// IsErrorBridge verifies error
func IsErrorBridge(err error) bool {
	return errors.Is(err, ErrBridge)
}
