package raven

import "errors"

var (
	ErrNoPort    = errors.New("no serial port provided")
	ErrNotReady  = errors.New("serial not ready")
	ErrTimeout   = errors.New("timed out waiting for device")
	ErrTransport = errors.New("serial transport failed")
)
