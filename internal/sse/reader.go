// Package sse reads text/event-stream bodies.
//
// Events are separated by blank lines. Multiple data lines of one event are
// joined with "\n". A final event that is not followed by a blank line is still
// delivered before io.EOF, since several vendors end the body without one.
package sse

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// DoneSentinel terminates OpenAI-compatible streams.
const DoneSentinel = "[DONE]"

// Event is one dispatched server-sent event.
type Event struct {
	Type string
	Data string
	ID   string
}

// IsDone reports whether the event is the [DONE] sentinel.
func (e Event) IsDone() bool {
	return strings.TrimSpace(e.Data) == DoneSentinel
}

// Reader decodes events from a stream.
type Reader struct {
	r    *bufio.Reader
	err  error
	data []string
	typ  string
	id   string
	seen bool
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next event. It returns io.EOF once the stream is drained
// and any other error from the underlying reader unchanged.
func (r *Reader) Next() (Event, error) {
	for {
		if r.err != nil {
			if ev, ok := r.flush(); ok {
				return ev, nil
			}
			return Event{}, r.err
		}

		line, err := r.r.ReadString('\n')
		if err != nil {
			r.err = err
			if errors.Is(err, io.EOF) && line == "" {
				continue
			}
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if r.err != nil {
				continue
			}
			if ev, ok := r.flush(); ok {
				return ev, nil
			}
			continue
		}

		r.field(line)
	}
}

func (r *Reader) field(line string) {
	if strings.HasPrefix(line, ":") {
		return
	}

	name, value, found := strings.Cut(line, ":")
	if found {
		value = strings.TrimPrefix(value, " ")
	}

	switch name {
	case "data":
		r.data = append(r.data, value)
		r.seen = true
	case "event":
		r.typ = value
		r.seen = true
	case "id":
		r.id = value
	}
}

func (r *Reader) flush() (Event, bool) {
	if !r.seen {
		return Event{}, false
	}

	ev := Event{
		Type: r.typ,
		Data: strings.Join(r.data, "\n"),
		ID:   r.id,
	}
	r.data = r.data[:0]
	r.typ = ""
	r.seen = false
	return ev, true
}
