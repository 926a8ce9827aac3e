// Package perplexity implements domain.VendorProvider over Perplexity's
// OpenAI-compatible chat completions API.
package perplexity

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/imagedata"
	"github.com/davidbz/glimpse/internal/observability"
	"github.com/davidbz/glimpse/internal/provider/modelretry"
	"github.com/davidbz/glimpse/internal/provider/vendorhttp"
	"github.com/davidbz/glimpse/internal/sse"
)

const (
	// BaseURL is the public API root.
	BaseURL = "https://api.perplexity.ai"

	defaultMaxTokens = 1000
	temperature      = 0.7
)

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

// message content is a string, or a part list for the image turn.
type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Provider implements domain.VendorProvider for Perplexity.
type Provider struct {
	apiKey    string
	endpoint  string
	maxTokens int
	tier      domain.Tier
	client    *http.Client
	policy    *modelretry.Policy
}

// NewProvider creates a provider bound to apiKey.
func NewProvider(config Config, apiKey string, resolver domain.ModelResolver) *Provider {
	model := config.Model
	if model == "" {
		if meta, ok := domain.Metadata(domain.VendorPerplexity); ok {
			model = meta.DefaultModel
		}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Provider{
		apiKey:    apiKey,
		endpoint:  baseURL + "/chat/completions",
		maxTokens: maxTokens,
		tier:      config.PreferredTier,
		client:    vendorhttp.NewClient(time.Duration(config.Timeout) * time.Second),
		policy:    modelretry.NewPolicy(resolver, IsInvalidModel, model),
	}
}

// Vendor returns the vendor identifier.
func (p *Provider) Vendor() domain.VendorID {
	return domain.VendorPerplexity
}

// Capabilities reports image support. Meeting summaries are not offered.
func (p *Provider) Capabilities() domain.ProviderCapabilities {
	meta, _ := domain.Metadata(domain.VendorPerplexity)
	return domain.ProviderCapabilities{Images: meta.SupportsImages, AudioSummary: meta.SupportsMeetingsAudio}
}

// StreamText streams a chat completion.
func (p *Provider) StreamText(ctx context.Context, messages []domain.Message, callbacks domain.StreamCallbacks) (string, error) {
	return p.run(ctx, toMessages(messages, nil), false, callbacks)
}

// StreamMultimodal embeds images as image_url parts of the last message when
// it is a user message.
func (p *Provider) StreamMultimodal(
	ctx context.Context,
	messages []domain.Message,
	images []string,
	callbacks domain.StreamCallbacks,
) (string, error) {
	if !p.Capabilities().Images {
		sink := domain.NewStreamSink(callbacks)
		return "", sink.Fail(domain.NewUnsupportedError(domain.VendorPerplexity, "image input"))
	}
	return p.run(ctx, toMessages(messages, images), len(images) > 0, callbacks)
}

// StreamAudioSummary is not supported by Perplexity.
func (p *Provider) StreamAudioSummary(_ context.Context, params domain.AudioSummaryParams) (string, error) {
	sink := domain.NewStreamSink(params.Callbacks)
	return "", sink.Fail(domain.NewUnsupportedError(domain.VendorPerplexity, "audio summary"))
}

func (p *Provider) run(ctx context.Context, messages []message, images bool, callbacks domain.StreamCallbacks) (string, error) {
	sink := domain.NewStreamSink(callbacks)
	if p.apiKey == "" {
		return "", sink.Fail(domain.NewMissingAPIKeyError(domain.VendorPerplexity))
	}

	ctx = observability.WithProvider(ctx, string(domain.VendorPerplexity))
	opts := domain.ResolveOptions{
		RequiredCapabilities: domain.ModelCapabilities{Text: true, Streaming: true, Images: images},
		PreferredTier:        p.tier,
	}

	attempt := func(ctx context.Context, model string) (string, error) {
		return p.attempt(ctx, sink, chatRequest{
			Model:       model,
			Messages:    messages,
			MaxTokens:   p.maxTokens,
			Temperature: temperature,
		})
	}

	// Image requests rank the catalog for image support instead of starting
	// from the configured model.
	run := p.policy.Run
	if images {
		run = p.policy.RunResolved
	}
	_, err := run(ctx, p.apiKey, opts, attempt)
	return sink.Finish(err)
}

func (p *Provider) attempt(ctx context.Context, sink *domain.StreamSink, body chatRequest) (string, error) {
	if err := p.stream(ctx, sink, body); err != nil {
		return "", err
	}
	if !sink.Empty() {
		return sink.Text(), nil
	}

	logger := observability.FromContext(ctx)
	logger.Warn("Perplexity stream produced no text, retrying without streaming")

	raw, err := vendorhttp.PostJSONBody(ctx, p.client, p.request(body))
	if err != nil {
		logger.Warn("Perplexity non-streaming request failed", observability.Error(err))
		return "", nil
	}

	sink.Emit(ExtractText(gjson.ParseBytes(raw)))
	return sink.Text(), nil
}

func (p *Provider) stream(ctx context.Context, sink *domain.StreamSink, body chatRequest) error {
	body.Stream = true
	resp, err := vendorhttp.PostJSON(ctx, p.client, p.request(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := sse.NewReader(resp.Body)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return domain.NewNetworkError(domain.VendorPerplexity, err)
		}
		if event.IsDone() {
			return nil
		}

		data := strings.TrimSpace(event.Data)
		if data == "" || !gjson.Valid(data) {
			continue
		}
		sink.Emit(ExtractText(gjson.Parse(data)))
	}
}

func (p *Provider) request(body chatRequest) vendorhttp.Request {
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if body.Stream {
		headers["Accept"] = "text/event-stream"
	}
	return vendorhttp.Request{
		Vendor:  domain.VendorPerplexity,
		URL:     p.endpoint,
		Headers: headers,
		Body:    body,
	}
}

func toMessages(messages []domain.Message, images []string) []message {
	out := make([]message, 0, len(messages))
	last := len(messages) - 1
	for i, msg := range messages {
		if len(images) > 0 && i == last && msg.Role == domain.RoleUser {
			out = append(out, message{Role: string(msg.Role), Content: imageParts(msg.Content, images)})
			continue
		}
		out = append(out, message{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}

func imageParts(text string, images []string) []contentPart {
	parts := make([]contentPart, 0, len(images)+1)
	if strings.TrimSpace(text) != "" {
		parts = append(parts, contentPart{Type: "text", Text: text})
	}
	for _, image := range images {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: imagedata.DataURI(image)}})
	}
	return parts
}

// IsInvalidModel reports whether Perplexity rejected the model id: a 400
// whose body mentions invalid_model, or whose error type or code says
// invalid.
func IsInvalidModel(err error) bool {
	var e *domain.Error
	if !errors.As(err, &e) || e.Kind != domain.KindAPI || e.StatusCode != http.StatusBadRequest {
		return false
	}
	if strings.Contains(strings.ToLower(e.Body), "invalid_model") {
		return true
	}
	if !gjson.Valid(e.Body) {
		return false
	}
	for _, path := range []string{"error.type", "error.code", "code"} {
		if code := gjson.Get(e.Body, path); code.Type == gjson.String && code.String() != "" {
			return strings.Contains(strings.ToLower(code.String()), "invalid")
		}
	}
	return false
}
