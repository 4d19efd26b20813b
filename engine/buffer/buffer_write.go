package buffer

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a UniformBufferProvider at a given byte offset.
type BufferWrite struct {
	Provider UniformBufferProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
