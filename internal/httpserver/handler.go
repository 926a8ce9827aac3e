package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/observability"
)

// VendorKeyHeader carries a per-request API key that overrides the configured one.
const VendorKeyHeader = "X-Vendor-Key"

// Handler handles HTTP requests.
type Handler struct {
	assistant *domain.AssistantService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(assistant *domain.AssistantService) *Handler {
	return &Handler{
		assistant: assistant,
	}
}

type errorBody struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// HandleAsk streams an answer as server-sent events.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req domain.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %w", domain.ErrInvalidRequest, err))
		return
	}
	req.APIKey = r.Header.Get(VendorKeyHeader)

	ctx := r.Context()
	if req.SessionID != "" {
		ctx = observability.WithSessionID(ctx, req.SessionID)
	}

	stream := newEventStream(w)
	text, err := h.assistant.Ask(ctx, &req, stream.callbacks())
	stream.finish(r, text, err)
}

// HandleSummary streams a rolling meeting summary as server-sent events.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req domain.TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %w", domain.ErrInvalidRequest, err))
		return
	}
	req.APIKey = r.Header.Get(VendorKeyHeader)

	stream := newEventStream(w)
	text, err := h.assistant.Summarize(r.Context(), &req, stream.callbacks())
	stream.finish(r, text, err)
}

// HandleQuestions extracts the questions asked in a transcript.
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	var req domain.TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %w", domain.ErrInvalidRequest, err))
		return
	}
	req.APIKey = r.Header.Get(VendorKeyHeader)

	questions, err := h.assistant.ExtractQuestions(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"questions": questions})
}

// HandleVendors lists vendor metadata.
func (h *Handler) HandleVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"vendors": h.assistant.Vendors(r.Context())})
}

// HandleCurrentModel resolves the model a vendor would use now.
// Query parameters: requested, exclude (comma list), images, tier.
func (h *Handler) HandleCurrentModel(w http.ResponseWriter, r *http.Request) {
	vendor := domain.VendorID(r.PathValue("id"))
	query := r.URL.Query()

	opts := domain.ResolveOptions{
		RequestedModel: query.Get("requested"),
		PreferredTier:  domain.Tier(query.Get("tier")),
		RequiredCapabilities: domain.ModelCapabilities{
			Text:      true,
			Streaming: true,
		},
	}
	if exclude := query.Get("exclude"); exclude != "" {
		opts.ExcludeModels = strings.Split(exclude, ",")
	}
	if images, err := strconv.ParseBool(query.Get("images")); err == nil {
		opts.RequiredCapabilities.Images = images
	}

	model, err := h.assistant.CurrentModel(r.Context(), vendor, r.Header.Get(VendorKeyHeader), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"vendor": string(vendor), "model": model})
}

// HandleInvalidateModel drops a vendor's cached model.
func (h *Handler) HandleInvalidateModel(w http.ResponseWriter, r *http.Request) {
	if err := h.assistant.InvalidateModel(r.Context(), domain.VendorID(r.PathValue("id"))); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory returns a session's exchanges.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	writeJSON(w, r, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"history":   h.assistant.History(sessionID),
	})
}

// HandleClearHistory forgets a session.
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.assistant.ClearHistory(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// eventStream writes callbacks as SSE frames. Headers are committed on the
// first chunk, so failures before any output still get a proper status code.
type eventStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newEventStream(w http.ResponseWriter) *eventStream {
	flusher, _ := w.(http.Flusher)
	return &eventStream{w: w, flusher: flusher}
}

func (s *eventStream) callbacks() domain.StreamCallbacks {
	return domain.StreamCallbacks{
		OnChunk: func(text string) {
			s.write("", domain.StreamChunk{Delta: text})
		},
	}
}

func (s *eventStream) finish(r *http.Request, text string, err error) {
	logger := observability.FromContext(r.Context())

	if err != nil {
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()

		if !started {
			writeError(s.w, r, err)
			return
		}

		logger.Error("stream failed", observability.Error(err))
		s.write("error", errorBody{Error: err.Error(), Kind: domain.ErrorKindOf(err)})
		return
	}

	s.write("", domain.StreamChunk{Done: true, Text: text})
	logger.Info("stream completed", observability.Int("chars", len(text)))
}

func (s *eventStream) write(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	if event != "" {
		fmt.Fprintf(s.w, "event: %s\n", event)
	}
	fmt.Fprintf(s.w, "data: %s\n\n", data)
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// StatusCode maps an assistant error to the bridge's HTTP status.
func StatusCode(err error) int {
	switch domain.ErrorKindOf(err) {
	case domain.KindMissingAPIKey:
		return http.StatusUnauthorized
	case domain.KindUnsupported:
		return http.StatusUnprocessableEntity
	case domain.KindAPI:
		return http.StatusBadGateway
	case domain.KindNetwork:
		return http.StatusGatewayTimeout
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownVendor):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	logger := observability.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", observability.Int("status", status), observability.Error(err))
	} else {
		logger.Warn("request rejected", observability.Int("status", status), observability.Error(err))
	}

	writeJSON(w, r, status, errorBody{Error: err.Error(), Kind: domain.ErrorKindOf(err)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Status is already written, only log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
