// Package openai provides an adapter for the OpenAI API using the official SDK.
// It implements domain.VendorProvider, converting domain messages to SDK
// parameters and SDK failures to the domain error taxonomy.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/imagedata"
	"github.com/davidbz/glimpse/internal/observability"
	"github.com/davidbz/glimpse/internal/provider/modelretry"
	"github.com/davidbz/glimpse/internal/provider/vendorhttp"
)

const (
	imageDetail       = "high"
	modelNotFoundCode = "model_not_found"

	// summaryPrompt extends the shared summarizer prompt for rolling updates.
	summaryPrompt = domain.SummarySystemPrompt + " Avoid repeating previous context."
)

// Provider implements domain.VendorProvider for OpenAI.
type Provider struct {
	client openai.Client
	apiKey string
	config Config
	policy *modelretry.Policy
}

// NewProvider creates a provider bound to apiKey. An empty key is accepted;
// every request then fails with a missing key error.
func NewProvider(config Config, apiKey string, resolver domain.ModelResolver) *Provider {
	model := config.Model
	if model == "" {
		if meta, ok := domain.Metadata(domain.VendorOpenAI); ok {
			model = meta.DefaultModel
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(vendorhttp.NewClient(time.Duration(config.Timeout) * time.Second)),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		apiKey: apiKey,
		config: config,
		policy: modelretry.NewPolicy(resolver, IsInvalidModel, model),
	}
}

// Vendor returns the vendor identifier.
func (p *Provider) Vendor() domain.VendorID {
	return domain.VendorOpenAI
}

// Capabilities reports image and audio summary support.
func (p *Provider) Capabilities() domain.ProviderCapabilities {
	meta, _ := domain.Metadata(domain.VendorOpenAI)
	return domain.ProviderCapabilities{Images: meta.SupportsImages, AudioSummary: true}
}

// StreamText streams a chat completion.
func (p *Provider) StreamText(ctx context.Context, messages []domain.Message, callbacks domain.StreamCallbacks) (string, error) {
	return p.run(ctx, toSDKMessages(messages, nil), false, callbacks)
}

// StreamMultimodal attaches images to the last user message as image_url parts.
func (p *Provider) StreamMultimodal(
	ctx context.Context,
	messages []domain.Message,
	images []string,
	callbacks domain.StreamCallbacks,
) (string, error) {
	if !p.Capabilities().Images {
		sink := domain.NewStreamSink(callbacks)
		return "", sink.Fail(domain.NewUnsupportedError(domain.VendorOpenAI, "image input"))
	}
	return p.run(ctx, toSDKMessages(messages, images), len(images) > 0, callbacks)
}

// StreamAudioSummary streams a rolling meeting summary.
func (p *Provider) StreamAudioSummary(ctx context.Context, params domain.AudioSummaryParams) (string, error) {
	messages := []domain.Message{
		domain.SystemMessage(summaryPrompt),
		domain.UserMessage(params.Transcript),
	}
	return p.StreamText(ctx, messages, params.Callbacks)
}

func (p *Provider) run(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	images bool,
	callbacks domain.StreamCallbacks,
) (string, error) {
	sink := domain.NewStreamSink(callbacks)
	if p.apiKey == "" {
		return "", sink.Fail(domain.NewMissingAPIKeyError(domain.VendorOpenAI))
	}

	ctx = observability.WithProvider(ctx, string(domain.VendorOpenAI))
	opts := domain.ResolveOptions{
		RequiredCapabilities: domain.ModelCapabilities{Text: true, Streaming: true, Images: images},
	}

	_, err := p.policy.Run(ctx, p.apiKey, opts, func(ctx context.Context, model string) (string, error) {
		return p.attempt(ctx, sink, p.params(model, messages))
	})
	return sink.Finish(err)
}

// attempt streams one request and reissues it without streaming when the
// stream ends without text.
func (p *Provider) attempt(ctx context.Context, sink *domain.StreamSink, params openai.ChatCompletionNewParams) (string, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI streaming API")

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			sink.Emit(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", toDomainError(err)
	}

	if !sink.Empty() {
		return sink.Text(), nil
	}

	logger.Warn("OpenAI stream produced no text, retrying without streaming")
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Warn("OpenAI non-streaming fallback failed", observability.Error(err))
		return "", nil
	}
	if len(resp.Choices) > 0 {
		sink.Emit(resp.Choices[0].Message.Content)
	}
	return sink.Text(), nil
}

// params converts domain state to SDK ChatCompletionNewParams.
func (p *Provider) params(model string, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	if p.config.Temperature > 0 {
		params.Temperature = openai.Float(p.config.Temperature)
	}

	if p.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.config.MaxTokens))
	}

	return params
}

// toSDKMessages converts domain messages. Images, when present, turn the last
// user message into a text part followed by one image_url part per image.
func toSDKMessages(messages []domain.Message, images []string) []openai.ChatCompletionMessageParamUnion {
	target := -1
	if len(images) > 0 {
		target = lastUserIndex(messages)
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	for i, msg := range messages {
		switch {
		case i == target:
			out = append(out, openai.UserMessage(imageParts(msg.Content, images)))
		case msg.Role == domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case msg.Role == domain.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}

	if len(images) > 0 && target == -1 {
		out = append(out, openai.UserMessage(imageParts("", images)))
	}

	return out
}

func imageParts(text string, images []string) []openai.ChatCompletionContentPartUnionParam {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	if text != "" {
		parts = append(parts, openai.TextContentPart(text))
	}
	for _, image := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    imagedata.DataURI(image),
			Detail: imageDetail,
		}))
	}
	return parts
}

func lastUserIndex(messages []domain.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return i
		}
	}
	return -1
}

// IsInvalidModel reports whether OpenAI rejected the model id.
func IsInvalidModel(err error) bool {
	var e *domain.Error
	if !errors.As(err, &e) || e.Kind != domain.KindAPI {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Code == modelNotFoundCode {
		return true
	}
	return strings.Contains(e.Body, modelNotFoundCode)
}

func toDomainError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		mapped := domain.NewAPIError(domain.VendorOpenAI, apiErr.StatusCode, apiErr.RawJSON())
		mapped.Err = apiErr
		return mapped
	}
	return domain.NewNetworkError(domain.VendorOpenAI, err)
}
