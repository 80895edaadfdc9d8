package source

// ByteSource is the read-only view the scanner and interpreter consume.
type ByteSource interface {
	Len() int
	Slice(start, n int) []byte
	Whole() []byte
}

// Buffer is an immutable ByteSource over a single byte slice.
type Buffer struct {
	name   string
	format Format
	data   []byte
}

// New wraps data without copying. Callers must not mutate data afterwards.
func New(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Named wraps data and remembers where it came from.
func Named(name string, data []byte) *Buffer {
	return &Buffer{name: name, data: data}
}

func (b *Buffer) Name() string { return b.name }

// Format reports how the content was wrapped on disk.
func (b *Buffer) Format() Format { return b.format }

func (b *Buffer) Len() int { return len(b.data) }

// Slice returns data[start:start+n] with capacity clipped to the range, or nil
// when the range falls outside the buffer.
func (b *Buffer) Slice(start, n int) []byte {
	if start < 0 || n < 0 || start > len(b.data) || n > len(b.data)-start {
		return nil
	}
	end := start + n
	return b.data[start:end:end]
}

func (b *Buffer) Whole() []byte {
	return b.data[:len(b.data):len(b.data)]
}
