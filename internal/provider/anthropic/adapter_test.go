package anthropic_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"pgregory.net/rapid"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/provider/anthropic"
	"github.com/davidbz/glimpse/internal/provider/providertest"
)

type fixture struct {
	mu      sync.Mutex
	bodies  []string
	headers []http.Header
}

func (f *fixture) record(body string, h http.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	f.headers = append(f.headers, h.Clone())
}

func newProvider(t *testing.T, apiKey string, handler func(w http.ResponseWriter, body string)) (*anthropic.Provider, *fixture) {
	t.Helper()
	f := &fixture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		body := providertest.ReadBody(t, r)
		f.record(body, r.Header)
		handler(w, body)
	}))
	t.Cleanup(srv.Close)

	resolver := providertest.StaticResolver(domain.VendorAnthropic,
		"claude-3-5-sonnet-20240620", "claude-3-5-sonnet-latest", "claude-3-haiku-20240307")
	return anthropic.NewProvider(anthropic.Config{BaseURL: srv.URL, Timeout: 5}, apiKey, resolver), f
}

func writeStream(w http.ResponseWriter, deltas ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	providertest.WriteEvent(w, "message_start", `{"type":"message_start","message":{"id":"msg_1"}}`)
	for _, d := range deltas {
		providertest.WriteEvent(w, "content_block_delta",
			fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%s}}`, providertest.Quote(d)))
	}
	providertest.WriteEvent(w, "message_stop", `{"type":"message_stop"}`)
}

func TestProvider_StreamText(t *testing.T) {
	ctx := context.Background()
	messages := []domain.Message{
		domain.SystemMessage("Rule one."),
		domain.SystemMessage("Rule two."),
		domain.UserMessage("  hi  "),
	}

	t.Run("should stream content block deltas until message stop", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			writeStream(w, "Hel", "lo")
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "Hello", text)
		require.Equal(t, []string{"Hel", "lo"}, rec.Chunks)
		rec.RequireSucceeded(t, "Hello")

		body, h := f.bodies[0], f.headers[0]
		require.Equal(t, "a-key", h.Get("x-api-key"))
		require.Equal(t, "2023-06-01", h.Get("anthropic-version"))
		require.Equal(t, "text/event-stream", h.Get("Accept"))
		require.True(t, gjson.Get(body, "stream").Bool())
		require.Equal(t, "claude-3-5-sonnet-20240620", gjson.Get(body, "model").String())
		require.EqualValues(t, 1024, gjson.Get(body, "max_tokens").Int())
		require.Equal(t, "Rule one.\n\nRule two.", gjson.Get(body, "system").String())
		require.Equal(t, "hi", gjson.Get(body, "messages.0.content.0.text").String())
		require.Equal(t, "text", gjson.Get(body, "messages.0.content.0.type").String())
	})

	t.Run("should fall back to a non-streaming request when no text arrives", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, body string) {
			if gjson.Get(body, "stream").Bool() {
				writeStream(w)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"sync "},{"type":"tool_use"},{"type":"text","text":"reply"}]}`))
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "sync reply", text)
		require.Len(t, f.bodies, 2)
		require.Empty(t, f.headers[1].Get("Accept"))
		rec.RequireSucceeded(t, "sync reply")
	})

	t.Run("should fail on an error event", func(t *testing.T) {
		provider, _ := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			w.Header().Set("Content-Type", "text/event-stream")
			providertest.WriteEvent(w, "error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
		})
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrAPI)
		require.Contains(t, err.Error(), "overloaded_error")
		rec.RequireFailed(t, domain.ErrAPI)
	})

	t.Run("should require an API key", func(t *testing.T) {
		provider, f := newProvider(t, "", func(http.ResponseWriter, string) {})
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrMissingAPIKey)
		require.Empty(t, f.bodies)
		rec.RequireFailed(t, domain.ErrMissingAPIKey)
	})
}

func TestProvider_InvalidModelRetry(t *testing.T) {
	ctx := context.Background()
	notFound := `{"type":"error","error":{"type":"not_found_error","message":"model: nope"}}`

	t.Run("should try each model once and surface the last error", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(notFound))
		})
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, []domain.Message{domain.UserMessage("q")}, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrAPI)
		models := make([]string, 0, len(f.bodies))
		for _, b := range f.bodies {
			models = append(models, gjson.Get(b, "model").String())
		}
		require.Equal(t, []string{"claude-3-5-sonnet-20240620", "claude-3-5-sonnet-latest", "claude-3-haiku-20240307"}, models)
		rec.RequireFailed(t, domain.ErrAPI)
	})

	t.Run("should recover on the next model", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, body string) {
			if gjson.Get(body, "model").String() == "claude-3-5-sonnet-20240620" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(notFound))
				return
			}
			writeStream(w, "ok")
		})

		text, err := provider.StreamText(ctx, []domain.Message{domain.UserMessage("q")}, domain.StreamCallbacks{})

		require.NoError(t, err)
		require.Equal(t, "ok", text)
		require.Len(t, f.bodies, 2)
	})
}

func TestProvider_StreamMultimodal(t *testing.T) {
	ctx := context.Background()

	t.Run("should attach image blocks to the last user turn", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			writeStream(w, "seen")
		})
		messages := []domain.Message{
			domain.UserMessage("earlier"),
			domain.AssistantMessage("noted"),
			domain.UserMessage("compare these"),
		}

		_, err := provider.StreamMultimodal(ctx, messages, []string{"R0lGODlh", "iVBORw0KGgo", "/9j/x"}, domain.StreamCallbacks{})
		require.NoError(t, err)

		body := f.bodies[0]
		require.EqualValues(t, 1, gjson.Get(body, "messages.0.content.#").Int())
		require.Equal(t, "assistant", gjson.Get(body, "messages.1.role").String())

		last := gjson.Get(body, "messages.2.content")
		require.Equal(t, "compare these", last.Get("0.text").String())
		require.Equal(t, "image", last.Get("1.type").String())
		require.Equal(t, "base64", last.Get("1.source.type").String())
		require.Equal(t, "image/gif", last.Get("1.source.media_type").String())
		require.Equal(t, "image/png", last.Get("2.source.media_type").String())
		require.Equal(t, "image/jpeg", last.Get("3.source.media_type").String())
		require.Equal(t, "Please answer the question above using every image provided.", last.Get("4.text").String())
		require.EqualValues(t, 3072, gjson.Get(body, "max_tokens").Int())
	})

	t.Run("should add a user turn when the conversation has none", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			writeStream(w, "ok")
		})

		_, err := provider.StreamMultimodal(ctx, []domain.Message{domain.SystemMessage("look")}, []string{"data:image/png;base64,AAAA"}, domain.StreamCallbacks{})
		require.NoError(t, err)

		body := f.bodies[0]
		require.Equal(t, "user", gjson.Get(body, "messages.0.role").String())
		require.Equal(t, "AAAA", gjson.Get(body, "messages.0.content.0.source.data").String())
		require.Equal(t, "Please analyze every image provided in this message.", gjson.Get(body, "messages.0.content.1.text").String())
		require.EqualValues(t, 2048, gjson.Get(body, "max_tokens").Int())
	})

	t.Run("should skip data URIs without a payload", func(t *testing.T) {
		provider, f := newProvider(t, "a-key", func(w http.ResponseWriter, _ string) {
			writeStream(w, "ok")
		})

		_, err := provider.StreamMultimodal(ctx, []domain.Message{domain.UserMessage("what is this?")},
			[]string{"data:image/png;base64", "iVBORw0KGgo"}, domain.StreamCallbacks{})
		require.NoError(t, err)

		last := gjson.Get(f.bodies[0], "messages.0.content")
		require.EqualValues(t, 3, last.Get("#").Int())
		require.Equal(t, "iVBORw0KGgo", last.Get("1.source.data").String())
	})

	t.Run("should scale max tokens with the image count", func(t *testing.T) {
		var (
			mu   sync.Mutex
			last string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			last = providertest.ReadBody(t, r)
			mu.Unlock()
			writeStream(w, "x")
		}))
		t.Cleanup(srv.Close)

		budget := domain.DefaultTokenBudget()
		provider := anthropic.NewProvider(anthropic.Config{BaseURL: srv.URL, Timeout: 5},
			"a-key", providertest.StaticResolver(domain.VendorAnthropic, "claude-3-haiku-20240307"))

		rapid.Check(t, func(rt *rapid.T) {
			n := rapid.IntRange(1, 12).Draw(rt, "images")
			images := strings.Split(strings.Repeat("iVBORw0KGgo,", n), ",")[:n]

			if _, err := provider.StreamMultimodal(ctx, []domain.Message{domain.UserMessage("q")}, images, domain.StreamCallbacks{}); err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}

			want := min(budget.Ceiling, budget.ImageBase+(n-1)*budget.PerImageBonus)
			mu.Lock()
			got := int(gjson.Get(last, "max_tokens").Int())
			mu.Unlock()
			if got != want {
				rt.Fatalf("max_tokens for %d images = %d, want %d", n, got, want)
			}
		})
	})
}

func TestProvider_ChunksMatchResult(t *testing.T) {
	var (
		mu     sync.Mutex
		deltas []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeStream(w, deltas...)
	}))
	t.Cleanup(srv.Close)

	rapid.Check(t, func(rt *rapid.T) {
		drawn := rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z.,!? ]{1,10}`), 1, 12).Draw(rt, "deltas")
		mu.Lock()
		deltas = drawn
		mu.Unlock()

		provider := anthropic.NewProvider(anthropic.Config{BaseURL: srv.URL, Timeout: 5},
			"a-key", providertest.StaticResolver(domain.VendorAnthropic, "claude-3-haiku-20240307"))
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(context.Background(), []domain.Message{domain.UserMessage("go")}, rec.Callbacks())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if text != rec.Joined() || text != strings.Join(drawn, "") {
			rt.Fatalf("chunks %q do not add up to %q", rec.Chunks, text)
		}
		if rec.Completed != 1 || len(rec.Errors) != 0 {
			rt.Fatalf("completed %d times with %d errors", rec.Completed, len(rec.Errors))
		}
	})
}

func TestIsInvalidModel(t *testing.T) {
	require.True(t, anthropic.IsInvalidModel(domain.NewAPIError(domain.VendorAnthropic, 404, `{"error":{"type":"not_found_error"}}`)))
	require.False(t, anthropic.IsInvalidModel(domain.NewAPIError(domain.VendorAnthropic, 529, `{"error":{"type":"overloaded_error"}}`)))
	require.False(t, anthropic.IsInvalidModel(domain.NewNetworkError(domain.VendorAnthropic, context.Canceled)))
}
