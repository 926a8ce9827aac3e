package domain

import (
	"strings"
	"sync"
)

// StreamCallbacks are the hooks a caller passes to a streaming request.
// Any field may be nil.
type StreamCallbacks struct {
	OnChunk    func(text string)
	OnComplete func()
	OnError    func(err error)
}

// StreamSink accumulates emitted text and guards the terminal callbacks so that
// exactly one of OnComplete or OnError fires per request.
type StreamSink struct {
	callbacks StreamCallbacks
	buf       strings.Builder
	once      sync.Once
	mu        sync.Mutex
}

// NewStreamSink wraps callbacks for one request.
func NewStreamSink(callbacks StreamCallbacks) *StreamSink {
	return &StreamSink{callbacks: callbacks}
}

// Emit forwards a non-empty delta to OnChunk and appends it to the result.
func (s *StreamSink) Emit(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	s.buf.WriteString(text)
	s.mu.Unlock()

	if s.callbacks.OnChunk != nil {
		s.callbacks.OnChunk(text)
	}
}

// Text returns everything emitted so far.
func (s *StreamSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Empty reports whether nothing has been emitted.
func (s *StreamSink) Empty() bool {
	return s.Text() == ""
}

// Complete fires OnComplete once and returns the accumulated text.
func (s *StreamSink) Complete() string {
	s.once.Do(func() {
		if s.callbacks.OnComplete != nil {
			s.callbacks.OnComplete()
		}
	})
	return s.Text()
}

// Fail fires OnError once and returns err for the caller to propagate.
func (s *StreamSink) Fail(err error) error {
	s.once.Do(func() {
		if s.callbacks.OnError != nil {
			s.callbacks.OnError(err)
		}
	})
	return err
}

// Finish completes the sink on success or fails it on error.
func (s *StreamSink) Finish(err error) (string, error) {
	if err != nil {
		return "", s.Fail(err)
	}
	return s.Complete(), nil
}
