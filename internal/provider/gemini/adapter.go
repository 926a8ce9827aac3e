// Package gemini implements domain.VendorProvider over the Gemini REST API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
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

const finishMaxTokens = "MAX_TOKENS"

// Provider implements domain.VendorProvider for Gemini.
type Provider struct {
	apiKey  string
	baseURL string
	budget  domain.TokenBudget
	client  *http.Client
	policy  *modelretry.Policy
}

// NewProvider creates a provider bound to apiKey.
func NewProvider(config Config, apiKey string, modelResolver domain.ModelResolver) *Provider {
	model := config.Model
	if model == "" {
		if meta, ok := domain.Metadata(domain.VendorGemini); ok {
			model = meta.DefaultModel
		}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = resolver.GeminiBaseURL
	}

	return &Provider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		budget:  config.Budget.WithDefaults(),
		client:  vendorhttp.NewClient(time.Duration(config.Timeout) * time.Second),
		policy:  modelretry.NewPolicy(modelResolver, IsInvalidModel, model),
	}
}

// Vendor returns the vendor identifier.
func (p *Provider) Vendor() domain.VendorID {
	return domain.VendorGemini
}

// Capabilities reports image and audio summary support.
func (p *Provider) Capabilities() domain.ProviderCapabilities {
	meta, _ := domain.Metadata(domain.VendorGemini)
	return domain.ProviderCapabilities{Images: meta.SupportsImages, AudioSummary: true}
}

// StreamText streams generated text at the default token budget.
func (p *Provider) StreamText(ctx context.Context, messages []domain.Message, callbacks domain.StreamCallbacks) (string, error) {
	return p.run(ctx, messages, nil, callbacks)
}

// StreamMultimodal sends images as inlineData parts with a budget scaled by
// the image count.
func (p *Provider) StreamMultimodal(
	ctx context.Context,
	messages []domain.Message,
	images []string,
	callbacks domain.StreamCallbacks,
) (string, error) {
	if !p.Capabilities().Images {
		sink := domain.NewStreamSink(callbacks)
		return "", sink.Fail(domain.NewUnsupportedError(domain.VendorGemini, "image input"))
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
		return "", sink.Fail(domain.NewMissingAPIKeyError(domain.VendorGemini))
	}

	ctx = observability.WithProvider(ctx, string(domain.VendorGemini))
	opts := domain.ResolveOptions{
		RequiredCapabilities: domain.ModelCapabilities{Text: true, Streaming: true, Images: len(images) > 0},
	}

	_, err := p.policy.Run(ctx, p.apiKey, opts, func(ctx context.Context, model string) (string, error) {
		return p.attempt(ctx, sink, resolver.NormalizeGeminiModel(model), messages, images)
	})
	return sink.Finish(err)
}

// attempt streams once, then on an empty result tries the same body without
// streaming, and finally one request at the escalated budget when the output
// was cut by the token limit or images were sent.
func (p *Provider) attempt(
	ctx context.Context,
	sink *domain.StreamSink,
	model string,
	messages []domain.Message,
	images []string,
) (string, error) {
	logger := observability.FromContext(ctx)

	budget := p.budget.ForImages(len(images))
	body := buildRequest(messages, images, budget)

	finish, err := p.stream(ctx, sink, model, body)
	if err != nil {
		return "", err
	}
	if !blank(sink) {
		return sink.Text(), nil
	}

	logger.Warn("Gemini stream produced no text, retrying without streaming",
		observability.String("finish_reason", finish))
	sink.Emit(p.generate(ctx, model, body))
	if !blank(sink) {
		return sink.Text(), nil
	}

	escalated := p.budget.Escalated(len(images))
	if (finish == finishMaxTokens || len(images) > 0) && escalated > budget {
		logger.Warn("Gemini returned no text, retrying with a larger token budget",
			observability.Int("max_output_tokens", escalated))
		sink.Emit(p.generate(ctx, model, buildRequest(messages, images, escalated)))
	}

	return sink.Text(), nil
}

// stream issues streamGenerateContent and emits text as it arrives. It
// returns the last finishReason seen.
func (p *Provider) stream(ctx context.Context, sink *domain.StreamSink, model string, body generateRequest) (string, error) {
	resp, err := vendorhttp.PostJSON(ctx, p.client, vendorhttp.Request{
		Vendor:  domain.VendorGemini,
		URL:     p.endpoint(model, "streamGenerateContent", true),
		Headers: map[string]string{"Accept": "text/event-stream"},
		Body:    body,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var finish string
	reader := sse.NewReader(resp.Body)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return finish, nil
		}
		if err != nil {
			return finish, domain.NewNetworkError(domain.VendorGemini, err)
		}

		data := strings.TrimSpace(event.Data)
		if data == "" || event.IsDone() || !gjson.Valid(data) {
			continue
		}

		payload := gjson.Parse(data)
		sink.Emit(ExtractText(payload))
		if reason := FinishReason(payload); reason != "" {
			finish = reason
		}
	}
}

// generate issues generateContent and returns its text. Failures count as no
// text.
func (p *Provider) generate(ctx context.Context, model string, body generateRequest) string {
	raw, err := vendorhttp.PostJSONBody(ctx, p.client, vendorhttp.Request{
		Vendor: domain.VendorGemini,
		URL:    p.endpoint(model, "generateContent", false),
		Body:   body,
	})
	if err != nil {
		observability.FromContext(ctx).Warn("Gemini non-streaming request failed", observability.Error(err))
		return ""
	}
	return ExtractText(gjson.ParseBytes(raw))
}

func (p *Provider) endpoint(model, method string, streaming bool) string {
	query := url.Values{}
	if streaming {
		query.Set("alt", "sse")
	}
	query.Set("key", p.apiKey)
	return fmt.Sprintf("%s/%s:%s?%s", p.baseURL, model, method, query.Encode())
}

func blank(sink *domain.StreamSink) bool {
	return strings.TrimSpace(sink.Text()) == ""
}

// IsInvalidModel reports whether Gemini rejected the model id.
func IsInvalidModel(err error) bool {
	var e *domain.Error
	if !errors.As(err, &e) || e.Kind != domain.KindAPI {
		return false
	}
	return e.StatusCode == http.StatusNotFound || strings.Contains(e.Body, "NOT_FOUND")
}
