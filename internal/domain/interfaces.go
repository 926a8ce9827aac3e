package domain

import "context"

// ProviderCapabilities advertises the optional parts of the VendorProvider contract.
type ProviderCapabilities struct {
	Images       bool `json:"images"`
	AudioSummary bool `json:"audioSummary"`
}

// VendorProvider streams completions from one vendor.
type VendorProvider interface {
	// Vendor returns the vendor identifier.
	Vendor() VendorID

	// Capabilities reports which optional operations are supported.
	Capabilities() ProviderCapabilities

	// StreamText streams a text completion and returns the concatenated text.
	StreamText(ctx context.Context, messages []Message, callbacks StreamCallbacks) (string, error)

	// StreamMultimodal attaches base64 images to the final user message.
	StreamMultimodal(ctx context.Context, messages []Message, images []string, callbacks StreamCallbacks) (string, error)

	// StreamAudioSummary streams a rolling meeting summary for a transcript.
	// Providers without Capabilities().AudioSummary return an Unsupported error.
	StreamAudioSummary(ctx context.Context, params AudioSummaryParams) (string, error)
}

// ModelResolver picks a concrete model identifier for a vendor. It never fails.
type ModelResolver interface {
	// Vendor returns the vendor identifier.
	Vendor() VendorID

	// Resolve returns the model to use for a request.
	Resolve(ctx context.Context, apiKey string, opts ResolveOptions) string

	// Invalidate drops the cached choice so the next Resolve rediscovers.
	Invalidate(ctx context.Context)
}

// ModelCache stores one preferred model per vendor with a time-to-live.
type ModelCache interface {
	// Get returns the live cached model, if any.
	Get(ctx context.Context, vendor VendorID) (string, bool)

	// Set records model as the vendor's preferred model.
	Set(ctx context.Context, vendor VendorID, model string)

	// Invalidate removes the vendor's cached model.
	Invalidate(ctx context.Context, vendor VendorID)
}

// ProviderRegistry creates providers and exposes their resolvers.
type ProviderRegistry interface {
	// Create builds a provider for vendor bound to apiKey.
	Create(ctx context.Context, vendor VendorID, apiKey string) (VendorProvider, error)

	// Resolver returns the model resolver of vendor.
	Resolver(ctx context.Context, vendor VendorID) (ModelResolver, error)

	// List returns registered vendors.
	List(ctx context.Context) []VendorID
}

// KeyStore supplies stored API keys per vendor.
type KeyStore interface {
	// APIKey returns the stored key for vendor, or "".
	APIKey(vendor VendorID) string
}
