package s3stream

import (
	"io"
	"sync/atomic"

	"go.uber.org/zap"
)

// progressSink forwards transfer ticks from in-flight upload tasks to the
// caller-supplied ProgressTracker. It is safe for concurrent use: several
// part uploads may report through it at once. Tracker callbacks run on the
// upload hot path, so a panicking tracker is recovered and logged rather
// than allowed to fail an otherwise-successful transfer.
type progressSink struct {
	tracker     ProgressTracker
	logger      *zap.Logger
	transferred atomic.Int64
	written     atomic.Int64
}

func newProgressSink(tracker ProgressTracker, logger *zap.Logger) *progressSink {
	return &progressSink{
		tracker: tracker,
		logger:  logger,
	}
}

// wrote records bytes accepted from the caller.
func (s *progressSink) wrote(n int64) {
	s.written.Add(n)
}

// tick records bytes handed to the transport and notifies the tracker.
func (s *progressSink) tick(n int64) {
	transferred := s.transferred.Add(n)
	if s.tracker == nil {
		return
	}
	defer s.recover("update")
	s.tracker.Update(transferred, s.written.Load())
}

// complete notifies the tracker that the object is durably stored.
func (s *progressSink) complete() {
	if s.tracker == nil {
		return
	}
	defer s.recover("complete")
	s.tracker.Complete()
}

// fail notifies the tracker that the upload failed.
func (s *progressSink) fail(err error) {
	if s.tracker == nil {
		return
	}
	defer s.recover("error")
	s.tracker.Error(err)
}

func (s *progressSink) recover(callback string) {
	if r := recover(); r != nil {
		s.logger.Warn("progress tracker panicked",
			zap.String("callback", callback), zap.Any("panic", r))
	}
}

// reader wraps an upload body so every read reports through the sink.
func (s *progressSink) reader(r io.Reader) io.Reader {
	return &progressReader{r: r, sink: s}
}

type progressReader struct {
	r    io.Reader
	sink *progressSink
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sink.tick(int64(n))
	}
	return n, err
}
