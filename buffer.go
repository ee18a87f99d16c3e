package s3stream

// uploadBuffer accumulates caller bytes up to its current limit.
// The limit equals the multipart threshold until a session exists, then the
// part size. The writer owns the buffer exclusively; on flush the filled
// byte slice is handed whole to an upload task and replaced, never shared.
type uploadBuffer struct {
	data  []byte
	limit int
}

func (b *uploadBuffer) len() int {
	return len(b.data)
}

// room reports how many more bytes fit before the limit is reached.
func (b *uploadBuffer) room() int {
	return b.limit - len(b.data)
}

func (b *uploadBuffer) append(p []byte) {
	b.data = append(b.data, p...)
}
