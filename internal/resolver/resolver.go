// Package resolver picks a concrete model per vendor.
//
// Resolution order is the same for every vendor: an explicit non-excluded
// request, then a live cache entry, then (with no API key) the first fallback,
// then vendor discovery ranked by a vendor-specific score. Resolution never
// fails: discovery errors and empty candidate lists fall back to a fixed list.
package resolver

import (
	"context"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/observability"
)

// DiscoverFunc lists the vendor's models for apiKey.
type DiscoverFunc func(ctx context.Context, apiKey string) ([]domain.ModelInfo, error)

// ScoreFunc ranks a candidate; higher wins, ties keep discovery order.
type ScoreFunc func(model domain.ModelInfo, opts domain.ResolveOptions) float64

// Strategy holds the vendor-specific parts of resolution.
type Strategy struct {
	Vendor    domain.VendorID
	Discover  DiscoverFunc
	Score     ScoreFunc
	Fallbacks []string
	// Normalize maps user-facing names to wire names. Optional.
	Normalize func(string) string
}

// Resolver implements domain.ModelResolver.
type Resolver struct {
	strategy Strategy
	cache    domain.ModelCache
	group    singleflight.Group
}

// New creates a resolver for strategy backed by cache.
func New(strategy Strategy, cache domain.ModelCache) *Resolver {
	return &Resolver{
		strategy: strategy,
		cache:    cache,
	}
}

// Vendor returns the vendor identifier.
func (r *Resolver) Vendor() domain.VendorID {
	return r.strategy.Vendor
}

// Fallbacks returns the normalized fallback list.
func (r *Resolver) Fallbacks() []string {
	out := make([]string, 0, len(r.strategy.Fallbacks))
	for _, name := range r.strategy.Fallbacks {
		out = append(out, r.normalize(name))
	}
	return out
}

// Resolve returns the model to use for a request.
func (r *Resolver) Resolve(ctx context.Context, apiKey string, opts domain.ResolveOptions) string {
	excluded := r.excluded(opts.ExcludeModels)

	if opts.RequestedModel != "" {
		requested := r.normalize(opts.RequestedModel)
		if !excluded[requested] {
			return requested
		}
	}

	if cached, ok := r.cache.Get(ctx, r.strategy.Vendor); ok {
		cached = r.normalize(cached)
		if !excluded[cached] {
			return cached
		}
	}

	if apiKey == "" || r.strategy.Discover == nil {
		return r.fallback(excluded)
	}

	// Discovery is detached from the caller: an abandoned resolution still
	// completes and fills the cache.
	detached := context.WithoutCancel(ctx)
	model, _, _ := r.group.Do(r.flightKey(opts, excluded), func() (any, error) {
		return r.discover(detached, apiKey, opts, excluded), nil
	})

	return model.(string)
}

// Invalidate drops the vendor's cached model.
func (r *Resolver) Invalidate(ctx context.Context) {
	r.cache.Invalidate(ctx, r.strategy.Vendor)
}

func (r *Resolver) discover(ctx context.Context, apiKey string, opts domain.ResolveOptions, excluded map[string]bool) string {
	logger := observability.FromContext(ctx)

	models, err := r.strategy.Discover(ctx, apiKey)
	if err != nil {
		logger.Warn("model discovery failed, using fallback",
			observability.String("vendor", string(r.strategy.Vendor)),
			observability.Error(err))
		return r.cacheFallback(ctx, excluded)
	}

	candidates := make([]domain.ModelInfo, 0, len(models))
	for _, m := range models {
		m.Name = r.normalize(m.Name)
		if m.Name == "" || excluded[m.Name] {
			continue
		}
		if !m.Capabilities.Satisfies(opts.RequiredCapabilities) {
			continue
		}
		candidates = append(candidates, m)
	}

	if len(candidates) == 0 {
		logger.Info("no discovered model matched, using fallback",
			observability.String("vendor", string(r.strategy.Vendor)),
			observability.Int("discovered", len(models)))
		return r.cacheFallback(ctx, excluded)
	}

	best := Rank(candidates, opts, r.strategy.Score)[0].Name
	r.cache.Set(ctx, r.strategy.Vendor, best)

	logger.Debug("model discovered",
		observability.String("vendor", string(r.strategy.Vendor)),
		observability.String("model", best),
		observability.Int("candidates", len(candidates)))

	return best
}

// Rank orders candidates by descending score. The sort is stable.
func Rank(candidates []domain.ModelInfo, opts domain.ResolveOptions, score ScoreFunc) []domain.ModelInfo {
	ranked := slices.Clone(candidates)
	if score == nil {
		return ranked
	}

	scores := make(map[string]float64, len(ranked))
	for _, m := range ranked {
		scores[m.Name] = score(m, opts)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Name] > scores[ranked[j].Name]
	})
	return ranked
}

func (r *Resolver) cacheFallback(ctx context.Context, excluded map[string]bool) string {
	model := r.fallback(excluded)
	if !excluded[model] {
		r.cache.Set(ctx, r.strategy.Vendor, model)
	}
	return model
}

// fallback returns the first non-excluded fallback, or the first fallback when
// every entry is excluded so the caller can detect exhaustion.
func (r *Resolver) fallback(excluded map[string]bool) string {
	fallbacks := r.Fallbacks()
	for _, name := range fallbacks {
		if !excluded[name] {
			return name
		}
	}
	if len(fallbacks) > 0 {
		return fallbacks[0]
	}
	return ""
}

func (r *Resolver) excluded(models []string) map[string]bool {
	out := make(map[string]bool, len(models))
	for _, m := range models {
		out[r.normalize(m)] = true
	}
	return out
}

func (r *Resolver) normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || r.strategy.Normalize == nil {
		return name
	}
	return r.strategy.Normalize(name)
}

func (r *Resolver) flightKey(opts domain.ResolveOptions, excluded map[string]bool) string {
	names := make([]string, 0, len(excluded))
	for name := range excluded {
		names = append(names, name)
	}
	sort.Strings(names)

	caps := opts.RequiredCapabilities
	var b strings.Builder
	b.WriteString(string(opts.PreferredTier))
	for _, flag := range []bool{caps.Text, caps.Streaming, caps.Images, caps.Audio} {
		if flag {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteString(strconv.Itoa(caps.MaxOutputTokens))
	b.WriteByte('|')
	b.WriteString(strings.Join(names, ","))
	return b.String()
}
