package layout

import "errors"

var (
	// ErrUnknownType is returned when a type spelling cannot be resolved to a uniform type.
	ErrUnknownType = errors.New("unknown uniform type")
	// ErrOffsetOrder is returned when a field does not start after the previous one.
	ErrOffsetOrder = errors.New("field offsets must strictly increase")
	// ErrMisaligned is returned when a field offset is not a multiple of its base alignment.
	ErrMisaligned = errors.New("field offset is not aligned")
	// ErrOverlap is returned when a field starts before the previous field ends.
	ErrOverlap = errors.New("fields overlap")
	// ErrSizeTooSmall is returned when a struct size does not cover its last field.
	ErrSizeTooSmall = errors.New("struct size does not cover its last field")
	// ErrBufferTooSmall is returned when a buffer is shorter than the layout it must hold.
	ErrBufferTooSmall = errors.New("buffer too small for layout")
)
