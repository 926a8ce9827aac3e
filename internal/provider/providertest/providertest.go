// Package providertest holds fixtures shared by the vendor adapter tests.
package providertest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/modelcache"
	"github.com/davidbz/glimpse/internal/resolver"
)

// Recorder captures every callback of one request.
type Recorder struct {
	mu        sync.Mutex
	Chunks    []string
	Completed int
	Errors    []error
}

// Callbacks returns callbacks that record into r.
func (r *Recorder) Callbacks() domain.StreamCallbacks {
	return domain.StreamCallbacks{
		OnChunk: func(text string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Chunks = append(r.Chunks, text)
		},
		OnComplete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Completed++
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Errors = append(r.Errors, err)
		},
	}
}

// Joined concatenates the recorded chunks in call order.
func (r *Recorder) Joined() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out string
	for _, c := range r.Chunks {
		out += c
	}
	return out
}

// RequireSucceeded asserts OnComplete fired once, OnError never, and the
// chunks add up to text.
func (r *Recorder) RequireSucceeded(t *testing.T, text string) {
	t.Helper()
	require.Equal(t, 1, r.Completed)
	require.Empty(t, r.Errors)
	require.Equal(t, text, r.Joined())
}

// RequireFailed asserts OnError fired once with err and OnComplete never.
func (r *Recorder) RequireFailed(t *testing.T, err error) {
	t.Helper()
	require.Equal(t, 0, r.Completed)
	require.Len(t, r.Errors, 1)
	require.ErrorIs(t, r.Errors[0], err)
}

// StaticResolver resolves from models in order, without discovery.
func StaticResolver(vendor domain.VendorID, models ...string) *resolver.Resolver {
	return resolver.New(resolver.Strategy{
		Vendor:    vendor,
		Fallbacks: models,
	}, modelcache.New(modelcache.NewMemoryStore()))
}

// WriteSSE writes each payload as a data frame and flushes after every frame.
func WriteSSE(w http.ResponseWriter, payloads ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for _, p := range payloads {
		_, _ = fmt.Fprintf(w, "data: %s\n\n", p)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// WriteEvent writes a typed SSE frame.
func WriteEvent(w io.Writer, event, payload string) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

// Quote returns s as a JSON string literal.
func Quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// ReadBody returns the request body as a string.
func ReadBody(t *testing.T, r *http.Request) string {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return string(b)
}
