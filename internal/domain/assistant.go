package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/glimpse/internal/observability"
)

// ErrInvalidRequest marks caller input that cannot be sent to any vendor.
var ErrInvalidRequest = errors.New("invalid request")

// AskRequest is one interactive question, optionally with screenshots.
type AskRequest struct {
	Vendor    VendorID `json:"vendor"`
	APIKey    string   `json:"-"`
	Query     string   `json:"query"`
	Images    []string `json:"images,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
}

// TranscriptRequest carries a meeting transcript to summarise or mine for questions.
type TranscriptRequest struct {
	Vendor     VendorID `json:"vendor"`
	APIKey     string   `json:"-"`
	Transcript string   `json:"transcript"`
}

type providerKey struct {
	vendor VendorID
	apiKey string
}

// AssistantService is the caller side of the VendorProvider contract.
// It keeps one provider per (vendor, key) pair so a recovered model sticks
// for later requests. Validation failures are returned before any callback fires.
type AssistantService struct {
	registry ProviderRegistry
	keys     KeyStore
	sessions *SessionStore
	now      func() time.Time

	mu        sync.Mutex
	providers map[providerKey]VendorProvider
}

// NewAssistantService creates a new assistant service (DI constructor).
func NewAssistantService(registry ProviderRegistry, keys KeyStore, sessions *SessionStore) *AssistantService {
	return &AssistantService{
		registry:  registry,
		keys:      keys,
		sessions:  sessions,
		now:       time.Now,
		providers: make(map[providerKey]VendorProvider),
	}
}

// Ask streams an answer to a question, attaching screenshots when present.
func (s *AssistantService) Ask(ctx context.Context, req *AskRequest, callbacks StreamCallbacks) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" && len(req.Images) == 0 {
		return "", fmt.Errorf("%w: query or images required", ErrInvalidRequest)
	}

	provider, err := s.provider(ctx, req.Vendor, req.APIKey)
	if err != nil {
		return "", err
	}

	ctx = observability.WithProvider(ctx, string(req.Vendor))
	logger := observability.FromContext(ctx)
	logger.Info("ask started",
		observability.Int("images", len(req.Images)),
		observability.Bool("has_session", req.SessionID != ""),
	)

	if query == "" {
		query = DefaultScreenshotQuery
	}
	messages := []Message{SystemMessage(AssistantSystemPrompt), UserMessage(query)}

	var text string
	if len(req.Images) > 0 {
		text, err = provider.StreamMultimodal(ctx, messages, req.Images, callbacks)
	} else {
		text, err = provider.StreamText(ctx, messages, callbacks)
	}

	s.record(req, query, text, err)

	if err != nil {
		logger.Warn("ask failed", observability.Error(err))
		return "", fmt.Errorf("ask failed: %w", err)
	}

	logger.Info("ask completed", observability.Int("chars", len(text)))
	return text, nil
}

// Summarize streams a rolling meeting summary. Providers without audio summary
// support get the summary prompt through StreamText instead.
func (s *AssistantService) Summarize(ctx context.Context, req *TranscriptRequest, callbacks StreamCallbacks) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.Transcript) == "" {
		return "", fmt.Errorf("%w: transcript cannot be empty", ErrInvalidRequest)
	}

	provider, err := s.provider(ctx, req.Vendor, req.APIKey)
	if err != nil {
		return "", err
	}

	ctx = observability.WithProvider(ctx, string(req.Vendor))
	logger := observability.FromContext(ctx)

	var text string
	if provider.Capabilities().AudioSummary {
		text, err = provider.StreamAudioSummary(ctx, AudioSummaryParams{
			Transcript: req.Transcript,
			Callbacks:  callbacks,
		})
	} else {
		logger.Debug("audio summary unsupported, using text stream")
		text, err = provider.StreamText(ctx, SummaryFallbackMessages(req.Transcript), callbacks)
	}
	if err != nil {
		return "", fmt.Errorf("summary failed: %w", err)
	}

	return text, nil
}

// ExtractQuestions asks the vendor for every question in a transcript.
// Transcripts shorter than MinQuestionTranscriptLength yield no questions.
func (s *AssistantService) ExtractQuestions(ctx context.Context, req *TranscriptRequest) ([]Question, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}

	transcript := strings.TrimSpace(req.Transcript)
	if len(transcript) < MinQuestionTranscriptLength {
		return []Question{}, nil
	}

	provider, err := s.provider(ctx, req.Vendor, req.APIKey)
	if err != nil {
		return nil, err
	}

	ctx = observability.WithProvider(ctx, string(req.Vendor))

	reply, err := provider.StreamText(ctx, QuestionExtractionMessages(transcript), StreamCallbacks{})
	if err != nil {
		return nil, fmt.Errorf("question extraction failed: %w", err)
	}

	questions := ParseQuestions(reply, s.now())
	observability.FromContext(ctx).Info("questions extracted", observability.Int("count", len(questions)))

	return questions, nil
}

// CurrentModel resolves the model a vendor would use right now.
func (s *AssistantService) CurrentModel(ctx context.Context, vendor VendorID, apiKey string, opts ResolveOptions) (string, error) {
	resolver, err := s.registry.Resolver(ctx, vendor)
	if err != nil {
		return "", fmt.Errorf("resolver lookup failed: %w", err)
	}
	return resolver.Resolve(ctx, s.apiKey(vendor, apiKey), opts), nil
}

// InvalidateModel drops a vendor's cached model.
func (s *AssistantService) InvalidateModel(ctx context.Context, vendor VendorID) error {
	resolver, err := s.registry.Resolver(ctx, vendor)
	if err != nil {
		return fmt.Errorf("resolver lookup failed: %w", err)
	}
	resolver.Invalidate(ctx)
	return nil
}

// Vendors describes every registered vendor in display order.
func (s *AssistantService) Vendors(ctx context.Context) []VendorMetadata {
	ids := s.registry.List(ctx)
	out := make([]VendorMetadata, 0, len(ids))
	for _, id := range ids {
		meta, ok := Metadata(id)
		if !ok {
			meta = VendorMetadata{ID: id, Label: string(id)}
		}
		out = append(out, meta)
	}
	return out
}

// History returns the exchanges recorded for a session.
func (s *AssistantService) History(sessionID string) []Exchange {
	return s.sessions.History(sessionID)
}

// ClearHistory forgets a session.
func (s *AssistantService) ClearHistory(sessionID string) {
	s.sessions.Clear(sessionID)
}

func (s *AssistantService) provider(ctx context.Context, vendor VendorID, apiKey string) (VendorProvider, error) {
	if vendor == "" {
		return nil, fmt.Errorf("%w: vendor cannot be empty", ErrInvalidRequest)
	}

	key := providerKey{vendor: vendor, apiKey: s.apiKey(vendor, apiKey)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if provider, ok := s.providers[key]; ok {
		return provider, nil
	}

	provider, err := s.registry.Create(ctx, vendor, key.apiKey)
	if err != nil {
		return nil, fmt.Errorf("provider not available: %w", err)
	}
	s.providers[key] = provider
	return provider, nil
}

func (s *AssistantService) apiKey(vendor VendorID, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if s.keys == nil {
		return ""
	}
	return s.keys.APIKey(vendor)
}

func (s *AssistantService) record(req *AskRequest, query, text string, err error) {
	if req.SessionID == "" || s.sessions == nil {
		return
	}

	exchange := Exchange{
		ID:        uuid.New().String(),
		Vendor:    req.Vendor,
		Query:     query,
		Images:    len(req.Images),
		Response:  text,
		CreatedAt: s.now(),
	}
	if err != nil {
		exchange.Error = err.Error()
	}
	s.sessions.Append(req.SessionID, exchange)
}
