// Package modelretry retries a request with a different model when the vendor
// rejects the model id.
package modelretry

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/observability"
)

// ErrNoModel is returned when resolution yields nothing to try.
var ErrNoModel = errors.New("no model available")

// MaxAttempts bounds the number of models tried for one request.
const MaxAttempts = 5

// AttemptFunc issues the request with model.
type AttemptFunc func(ctx context.Context, model string) (string, error)

// Classifier reports whether err means the model id was rejected.
type Classifier func(err error) bool

// Policy resolves models for a provider and remembers the last model that
// worked, so a recovered model sticks for later requests.
type Policy struct {
	resolver  domain.ModelResolver
	isInvalid Classifier

	mu        sync.RWMutex
	preferred string
}

// NewPolicy creates a policy that starts from preferred, which may be empty.
func NewPolicy(resolver domain.ModelResolver, isInvalid Classifier, preferred string) *Policy {
	return &Policy{
		resolver:  resolver,
		isInvalid: isInvalid,
		preferred: preferred,
	}
}

// Preferred returns the model the next request starts with, or "".
func (p *Policy) Preferred() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.preferred
}

func (p *Policy) setPreferred(model string) {
	p.mu.Lock()
	p.preferred = model
	p.mu.Unlock()
}

// Run calls attempt until it succeeds, fails for another reason, the resolver
// hands back an already attempted model, or MaxAttempts is reached. Each retry
// invalidates the cache and excludes every model tried so far. The last
// invalid-model error is returned when retries run out.
func (p *Policy) Run(ctx context.Context, apiKey string, opts domain.ResolveOptions, attempt AttemptFunc) (string, error) {
	if opts.RequestedModel == "" {
		opts.RequestedModel = p.Preferred()
	}
	return p.run(ctx, apiKey, opts, attempt, true)
}

// RunResolved is Run without the preferred model: the first model comes from
// resolution against opts, and the model that succeeds is not remembered.
func (p *Policy) RunResolved(ctx context.Context, apiKey string, opts domain.ResolveOptions, attempt AttemptFunc) (string, error) {
	return p.run(ctx, apiKey, opts, attempt, false)
}

func (p *Policy) run(
	ctx context.Context,
	apiKey string,
	opts domain.ResolveOptions,
	attempt AttemptFunc,
	sticky bool,
) (string, error) {
	logger := observability.FromContext(ctx)

	base := slices.Clone(opts.ExcludeModels)
	attempted := make([]string, 0, MaxAttempts)
	var lastErr error

	for i := range MaxAttempts {
		resolveOpts := opts
		resolveOpts.ExcludeModels = append(slices.Clone(base), attempted...)
		if i > 0 {
			resolveOpts.RequestedModel = ""
		}

		model := p.resolver.Resolve(ctx, apiKey, resolveOpts)
		if model == "" || slices.Contains(attempted, model) {
			logger.Warn("no untried model left",
				observability.Strings("attempted", attempted))
			if lastErr == nil {
				lastErr = ErrNoModel
			}
			return "", lastErr
		}
		attempted = append(attempted, model)

		text, err := attempt(observability.WithModel(ctx, model), model)
		if err == nil {
			if sticky {
				p.setPreferred(model)
			}
			return text, nil
		}

		if p.isInvalid == nil || !p.isInvalid(err) {
			return "", err
		}

		lastErr = err
		logger.Warn("model rejected by vendor, retrying",
			observability.String("model", model),
			observability.Int("attempt", i+1),
			observability.Error(err))

		p.resolver.Invalidate(ctx)
		if sticky {
			p.setPreferred("")
		}
	}

	return "", lastErr
}
