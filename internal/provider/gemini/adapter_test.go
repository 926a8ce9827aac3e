package gemini_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"pgregory.net/rapid"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/provider/gemini"
	"github.com/davidbz/glimpse/internal/provider/providertest"
)

type call struct {
	path  string
	query string
	body  string
}

type fixture struct {
	mu    sync.Mutex
	calls []call
}

func (f *fixture) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func newProvider(t *testing.T, apiKey string, handler func(w http.ResponseWriter, c call)) (*gemini.Provider, *fixture) {
	t.Helper()
	f := &fixture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{path: r.URL.Path, query: r.URL.RawQuery, body: providertest.ReadBody(t, r)}
		f.record(c)
		handler(w, c)
	}))
	t.Cleanup(srv.Close)

	resolver := providertest.StaticResolver(domain.VendorGemini, "gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash")
	return gemini.NewProvider(gemini.Config{BaseURL: srv.URL, Timeout: 5}, apiKey, resolver), f
}

func isStream(c call) bool {
	return strings.HasSuffix(c.path, ":streamGenerateContent")
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestProvider_StreamText(t *testing.T) {
	ctx := context.Background()
	messages := []domain.Message{
		domain.SystemMessage("Be brief."),
		domain.UserMessage("hello"),
		domain.AssistantMessage("hi"),
		domain.UserMessage("how are you?"),
	}

	t.Run("should stream text parts in order", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, _ call) {
			providertest.WriteSSE(w,
				`{"candidates":[{"content":{"parts":[{"text":"Fine"}]}}]}`,
				`{"candidates":[{"content":{"parts":[{"text":", thanks"}]},"finishReason":"STOP"}]}`,
			)
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "Fine, thanks", text)
		require.Equal(t, []string{"Fine", ", thanks"}, rec.Chunks)
		rec.RequireSucceeded(t, text)

		c := f.calls[0]
		require.Equal(t, "/models/gemini-2.5-flash:streamGenerateContent", c.path)
		require.Equal(t, "alt=sse&key=g-key", c.query)
		require.Equal(t, "Be brief.", gjson.Get(c.body, "systemInstruction.parts.0.text").String())
		require.Equal(t, "user", gjson.Get(c.body, "contents.0.role").String())
		require.Equal(t, "model", gjson.Get(c.body, "contents.1.role").String())
		require.EqualValues(t, 3, gjson.Get(c.body, "contents.#").Int())
		require.EqualValues(t, 1024, gjson.Get(c.body, "generationConfig.maxOutputTokens").Int())
		require.InDelta(t, 0.95, gjson.Get(c.body, "generationConfig.topP").Float(), 0.0001)
		require.EqualValues(t, 40, gjson.Get(c.body, "generationConfig.topK").Int())
	})

	t.Run("should use the non-streaming result when the stream is empty", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, c call) {
			if isStream(c) {
				providertest.WriteSSE(w, `{"candidates":[{"content":{"parts":[]}}]}`)
				return
			}
			writeJSON(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "ok", text)
		require.Len(t, f.calls, 2)
		require.Equal(t, "/models/gemini-2.5-flash:generateContent", f.calls[1].path)
		require.Equal(t, "key=g-key", f.calls[1].query)
		rec.RequireSucceeded(t, "ok")
	})

	t.Run("should escalate the budget once after a max tokens cut", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, c call) {
			switch {
			case isStream(c):
				providertest.WriteSSE(w, `{"candidates":[{"finishReason":"MAX_TOKENS"}]}`)
			case gjson.Get(c.body, "generationConfig.maxOutputTokens").Int() == 2048:
				writeJSON(w, `{"candidates":[{"content":{"parts":[{"text":"long answer"}]}}]}`)
			default:
				writeJSON(w, `{"candidates":[{"finishReason":"MAX_TOKENS"}]}`)
			}
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "long answer", text)
		require.Len(t, f.calls, 3)
		rec.RequireSucceeded(t, "long answer")
	})

	t.Run("should complete empty when nothing yields text", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, c call) {
			if isStream(c) {
				providertest.WriteSSE(w, `{"candidates":[{"finishReason":"SAFETY"}]}`)
				return
			}
			writeJSON(w, `{}`)
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.NoError(t, err)
		require.Empty(t, text)
		require.Len(t, f.calls, 2)
		rec.RequireSucceeded(t, "")
	})

	t.Run("should retry another model on NOT_FOUND", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, c call) {
			if strings.Contains(c.path, "gemini-2.5-flash") {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":{"code":404,"status":"NOT_FOUND"}}`))
				return
			}
			providertest.WriteSSE(w, `{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`)
		})

		text, err := provider.StreamText(ctx, messages, domain.StreamCallbacks{})

		require.NoError(t, err)
		require.Equal(t, "hi", text)
		require.Equal(t, "/models/gemini-2.0-flash:streamGenerateContent", f.calls[1].path)
	})

	t.Run("should surface server errors", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, _ call) {
			http.Error(w, `{"error":{"status":"INTERNAL"}}`, http.StatusInternalServerError)
		})
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrAPI)
		require.Len(t, f.calls, 1)
		rec.RequireFailed(t, domain.ErrAPI)
	})

	t.Run("should keep the key out of network errors", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()
		resolver := providertest.StaticResolver(domain.VendorGemini, "gemini-2.5-flash")
		provider := gemini.NewProvider(gemini.Config{BaseURL: base, Timeout: 5}, "SECRET-KEY-123", resolver)
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrNetwork)
		require.NotContains(t, err.Error(), "SECRET-KEY-123")
		rec.RequireFailed(t, domain.ErrNetwork)
		require.NotContains(t, rec.Errors[0].Error(), "SECRET-KEY-123")
	})

	t.Run("should require an API key", func(t *testing.T) {
		provider, f := newProvider(t, "", func(http.ResponseWriter, call) {})
		rec := &providertest.Recorder{}

		_, err := provider.StreamText(ctx, messages, rec.Callbacks())

		require.ErrorIs(t, err, domain.ErrMissingAPIKey)
		require.Empty(t, f.calls)
		rec.RequireFailed(t, domain.ErrMissingAPIKey)
	})
}

func TestProvider_StreamMultimodal(t *testing.T) {
	ctx := context.Background()

	t.Run("should send inline data on the last user message", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, _ call) {
			providertest.WriteSSE(w, `{"candidates":[{"content":{"parts":[{"text":"two cats"}]}}]}`)
		})
		messages := []domain.Message{
			domain.SystemMessage("sys"),
			domain.UserMessage("first"),
			domain.UserMessage("what is shown?"),
		}
		images := []string{"/9j/4AAQ", "data:image/webp;base64,UklGRabc"}

		text, err := provider.StreamMultimodal(ctx, messages, images, domain.StreamCallbacks{})

		require.NoError(t, err)
		require.Equal(t, "two cats", text)

		body := f.calls[0].body
		require.Equal(t, "first", gjson.Get(body, "contents.0.parts.0.text").String())
		require.False(t, gjson.Get(body, "contents.0.parts.0.inlineData").Exists())

		parts := gjson.Get(body, "contents.1.parts")
		require.Equal(t, "image/jpeg", parts.Get("0.inlineData.mimeType").String())
		require.Equal(t, "/9j/4AAQ", parts.Get("0.inlineData.data").String())
		require.Equal(t, "image/webp", parts.Get("1.inlineData.mimeType").String())
		require.Equal(t, "UklGRabc", parts.Get("1.inlineData.data").String())
		require.Equal(t, "what is shown?\n\nPlease use every image above when responding.", parts.Get("2.text").String())

		require.Equal(t, "sys\n\nConsider every user-provided image together before answering.",
			gjson.Get(body, "systemInstruction.parts.0.text").String())
		require.EqualValues(t, 2560, gjson.Get(body, "generationConfig.maxOutputTokens").Int())
	})

	t.Run("should retry an empty image answer at the enlarged budget", func(t *testing.T) {
		provider, f := newProvider(t, "g-key", func(w http.ResponseWriter, c call) {
			switch {
			case isStream(c):
				providertest.WriteSSE(w, `{"candidates":[{"finishReason":"STOP"}]}`)
			case gjson.Get(c.body, "generationConfig.maxOutputTokens").Int() == 4096:
				writeJSON(w, `{"candidates":[{"content":{"parts":[{"text":"finally"}]}}]}`)
			default:
				writeJSON(w, `{"candidates":[]}`)
			}
		})
		rec := &providertest.Recorder{}

		text, err := provider.StreamMultimodal(ctx, []domain.Message{domain.UserMessage("")}, []string{"iVBORw0KGgo"}, rec.Callbacks())

		require.NoError(t, err)
		require.Equal(t, "finally", text)
		require.Len(t, f.calls, 3)
		require.Equal(t, "Please analyze all of the images above when responding.",
			gjson.Get(f.calls[0].body, "contents.0.parts.1.text").String())
		rec.RequireSucceeded(t, "finally")
	})

	t.Run("should scale the token budget with the image count", func(t *testing.T) {
		var (
			mu   sync.Mutex
			last string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			last = providertest.ReadBody(t, r)
			mu.Unlock()
			providertest.WriteSSE(w, `{"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`)
		}))
		t.Cleanup(srv.Close)

		budget := domain.DefaultTokenBudget()
		provider := gemini.NewProvider(gemini.Config{BaseURL: srv.URL, Timeout: 5},
			"g-key", providertest.StaticResolver(domain.VendorGemini, "gemini-2.5-flash"))

		rapid.Check(t, func(rt *rapid.T) {
			n := rapid.IntRange(0, 12).Draw(rt, "images")
			images := make([]string, n)
			for i := range images {
				images[i] = "iVBORw0KGgo"
			}

			var err error
			if n == 0 {
				_, err = provider.StreamText(ctx, []domain.Message{domain.UserMessage("q")}, domain.StreamCallbacks{})
			} else {
				_, err = provider.StreamMultimodal(ctx, []domain.Message{domain.UserMessage("q")}, images, domain.StreamCallbacks{})
			}
			if err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}

			want := budget.Default
			if n > 0 {
				want = min(budget.Ceiling, budget.ImageBase+max(0, n-1)*budget.PerImageBonus)
			}

			mu.Lock()
			got := gjson.Get(last, "generationConfig.maxOutputTokens").Int()
			mu.Unlock()
			if int(got) != want {
				rt.Fatalf("maxOutputTokens for %d images = %d, want %d", n, got, want)
			}
		})
	})
}

func TestProvider_ChunksMatchResult(t *testing.T) {
	var (
		mu     sync.Mutex
		frames []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		providertest.WriteSSE(w, frames...)
	}))
	t.Cleanup(srv.Close)

	shapes := []string{
		`{"candidates":[{"content":{"parts":[{"text":%s}]}}]}`,
		`{"candidates":[{"delta":{"content":{"parts":[{"text":%s}]}}}]}`,
		`{"result":{"candidates":[{"content":{"parts":[%s]}}]}}`,
		`{"modelOutput":[{"content":{"parts":[{"text":%s}]}}]}`,
	}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "frames")

		mu.Lock()
		frames = frames[:0]
		for range n {
			text := rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "text")
			shape := rapid.SampledFrom(shapes).Draw(rt, "shape")
			frames = append(frames, strings.Replace(shape, "%s", providertest.Quote(text), 1))
		}
		mu.Unlock()

		provider := gemini.NewProvider(gemini.Config{BaseURL: srv.URL, Timeout: 5},
			"g-key", providertest.StaticResolver(domain.VendorGemini, "gemini-2.5-flash"))
		rec := &providertest.Recorder{}

		text, err := provider.StreamText(context.Background(), []domain.Message{domain.UserMessage("go")}, rec.Callbacks())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if text == "" || text != rec.Joined() {
			rt.Fatalf("chunks %q do not add up to %q", rec.Chunks, text)
		}
		if rec.Completed != 1 || len(rec.Errors) != 0 {
			rt.Fatalf("completed %d times with %d errors", rec.Completed, len(rec.Errors))
		}
	})
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"content parts", `{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}]}}]}`, "ab"},
		{"delta content parts", `{"candidates":[{"delta":{"content":{"parts":[{"text":"d"}]}}}]}`, "d"},
		{"delta parts", `{"candidates":[{"delta":{"parts":["s"]}}]}`, "s"},
		{"indexed delta", `{"candidates":[{"delta":[{"parts":[{"text":"i"}]}]}]}`, "i"},
		{"indexed content", `{"candidates":[{"content":[{"parts":[{"text":"c"}]}]}]}`, "c"},
		{"output content", `{"candidates":[{"output":[{"content":{"parts":[{"text":"o"}]}}]}]}`, "o"},
		{"server content", `{"serverContent":{"candidates":[{"content":{"parts":[{"text":"sc"}]}}]}}`, "sc"},
		{"completion", `{"completion":{"candidates":[{"content":{"parts":[{"text":"cp"}]}}]}}`, "cp"},
		{"model output", `{"modelOutput":[{"parts":[{"text":"mo"}]}]}`, "mo"},
		{"non text parts skipped", `{"candidates":[{"content":{"parts":[{"inlineData":{}},{"text":"t"}]}}]}`, "t"},
		{"empty delta falls through to content", `{"candidates":[{"delta":{"parts":[]},"content":{"parts":[{"text":"x"}]}}]}`, "x"},
		{"nothing", `{"usageMetadata":{}}`, ""},
	}

	for _, tt := range tests {
		t.Run("should extract "+tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, gemini.ExtractText(gjson.Parse(tt.payload)))
		})
	}
}

func TestIsInvalidModel(t *testing.T) {
	require.True(t, gemini.IsInvalidModel(domain.NewAPIError(domain.VendorGemini, 404, "")))
	require.True(t, gemini.IsInvalidModel(domain.NewAPIError(domain.VendorGemini, 400, `{"status":"NOT_FOUND"}`)))
	require.False(t, gemini.IsInvalidModel(domain.NewAPIError(domain.VendorGemini, 500, "boom")))
	require.False(t, gemini.IsInvalidModel(domain.NewMissingAPIKeyError(domain.VendorGemini)))
}
