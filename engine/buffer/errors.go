package buffer

import "errors"

var (
	// ErrUnknownBinding is returned when no block is registered at a binding.
	ErrUnknownBinding = errors.New("buffer: no block at binding")
	// ErrNoDevice is returned by Init when called without a device.
	ErrNoDevice = errors.New("buffer: nil device")
	// ErrAlignment is returned for an offset alignment that is not a positive power of two.
	ErrAlignment = errors.New("buffer: offset alignment must be a positive power of two")
	// ErrPackerClosed is returned by Pack after Close.
	ErrPackerClosed = errors.New("buffer: packer closed")
)
