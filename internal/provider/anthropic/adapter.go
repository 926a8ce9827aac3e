// Package anthropic implements domain.VendorProvider over the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/observability"
	"github.com/davidbz/glimpse/internal/provider/modelretry"
	"github.com/davidbz/glimpse/internal/provider/vendorhttp"
	"github.com/davidbz/glimpse/internal/resolver"
	"github.com/davidbz/glimpse/internal/sse"
)

// Stream event types the adapter acts on.
const (
	eventContentBlockDelta = "content_block_delta"
	eventMessageStop       = "message_stop"
	eventError             = "error"
)

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// Provider implements domain.VendorProvider for Anthropic.
type Provider struct {
	apiKey   string
	endpoint string
	version  string
	budget   domain.TokenBudget
	client   *http.Client
	policy   *modelretry.Policy
}

// NewProvider creates a provider bound to apiKey.
func NewProvider(config Config, apiKey string, modelResolver domain.ModelResolver) *Provider {
	model := config.Model
	if model == "" {
		if meta, ok := domain.Metadata(domain.VendorAnthropic); ok {
			model = meta.DefaultModel
		}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = resolver.AnthropicBaseURL
	}
	version := config.Version
	if version == "" {
		version = resolver.AnthropicVersion
	}

	return &Provider{
		apiKey:   apiKey,
		endpoint: baseURL + "/v1/messages",
		version:  version,
		budget:   config.Budget.WithDefaults(),
		client:   vendorhttp.NewClient(time.Duration(config.Timeout) * time.Second),
		policy:   modelretry.NewPolicy(modelResolver, IsInvalidModel, model),
	}
}

// Vendor returns the vendor identifier.
func (p *Provider) Vendor() domain.VendorID {
	return domain.VendorAnthropic
}

// Capabilities reports image and audio summary support.
func (p *Provider) Capabilities() domain.ProviderCapabilities {
	meta, _ := domain.Metadata(domain.VendorAnthropic)
	return domain.ProviderCapabilities{Images: meta.SupportsImages, AudioSummary: true}
}

// StreamText streams a message at the default token budget.
func (p *Provider) StreamText(ctx context.Context, messages []domain.Message, callbacks domain.StreamCallbacks) (string, error) {
	return p.run(ctx, messages, nil, callbacks)
}

// StreamMultimodal sends images as base64 image blocks with a budget scaled
// by the image count.
func (p *Provider) StreamMultimodal(
	ctx context.Context,
	messages []domain.Message,
	images []string,
	callbacks domain.StreamCallbacks,
) (string, error) {
	if !p.Capabilities().Images {
		sink := domain.NewStreamSink(callbacks)
		return "", sink.Fail(domain.NewUnsupportedError(domain.VendorAnthropic, "image input"))
	}
	return p.run(ctx, messages, images, callbacks)
}

// StreamAudioSummary streams a rolling meeting summary.
func (p *Provider) StreamAudioSummary(ctx context.Context, params domain.AudioSummaryParams) (string, error) {
	return p.StreamText(ctx, domain.SummaryMessages(params.Transcript), params.Callbacks)
}

func (p *Provider) run(ctx context.Context, messages []domain.Message, images []string, callbacks domain.StreamCallbacks) (string, error) {
	sink := domain.NewStreamSink(callbacks)
	if p.apiKey == "" {
		return "", sink.Fail(domain.NewMissingAPIKeyError(domain.VendorAnthropic))
	}

	ctx = observability.WithProvider(ctx, string(domain.VendorAnthropic))
	opts := domain.ResolveOptions{
		RequiredCapabilities: domain.ModelCapabilities{Text: true, Streaming: true, Images: len(images) > 0},
	}
	maxTokens := p.budget.ForImages(len(images))

	_, err := p.policy.Run(ctx, p.apiKey, opts, func(ctx context.Context, model string) (string, error) {
		return p.attempt(ctx, sink, buildRequest(model, messages, images, maxTokens))
	})
	return sink.Finish(err)
}

func (p *Provider) attempt(ctx context.Context, sink *domain.StreamSink, body messagesRequest) (string, error) {
	if err := p.stream(ctx, sink, body); err != nil {
		return "", err
	}
	if strings.TrimSpace(sink.Text()) != "" {
		return sink.Text(), nil
	}

	logger := observability.FromContext(ctx)
	logger.Warn("Anthropic stream produced no text, retrying without streaming")

	raw, err := vendorhttp.PostJSONBody(ctx, p.client, vendorhttp.Request{
		Vendor:  domain.VendorAnthropic,
		URL:     p.endpoint,
		Headers: p.headers(false),
		Body:    body,
	})
	if err != nil {
		logger.Warn("Anthropic non-streaming request failed", observability.Error(err))
		return sink.Text(), nil
	}

	sink.Emit(ExtractText(gjson.ParseBytes(raw)))
	return sink.Text(), nil
}

func (p *Provider) stream(ctx context.Context, sink *domain.StreamSink, body messagesRequest) error {
	body.Stream = true
	resp, err := vendorhttp.PostJSON(ctx, p.client, vendorhttp.Request{
		Vendor:  domain.VendorAnthropic,
		URL:     p.endpoint,
		Headers: p.headers(true),
		Body:    body,
	})
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
			return domain.NewNetworkError(domain.VendorAnthropic, err)
		}
		if event.Data == "" || event.IsDone() {
			continue
		}

		var parsed streamEvent
		if json.Unmarshal([]byte(event.Data), &parsed) != nil {
			continue
		}

		switch parsed.Type {
		case eventContentBlockDelta:
			sink.Emit(parsed.Delta.Text)
		case eventMessageStop:
			return nil
		case eventError:
			return domain.NewAPIError(domain.VendorAnthropic, resp.StatusCode, event.Data)
		}
	}
}

func (p *Provider) headers(streaming bool) map[string]string {
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": p.version,
	}
	if streaming {
		headers["Accept"] = "text/event-stream"
	}
	return headers
}

// ExtractText joins the text blocks of a non-streaming Messages response.
func ExtractText(payload gjson.Result) string {
	var b strings.Builder
	payload.Get("content").ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			b.WriteString(block.Get("text").String())
		}
		return true
	})
	return b.String()
}

// IsInvalidModel reports whether Anthropic rejected the model id.
func IsInvalidModel(err error) bool {
	var e *domain.Error
	if !errors.As(err, &e) || e.Kind != domain.KindAPI {
		return false
	}
	return strings.Contains(e.Body, "not_found")
}
