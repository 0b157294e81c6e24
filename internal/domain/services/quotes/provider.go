package quotes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pfinance/pfinance_service/internal/domain/entities"
)

// Provider looks up the latest quote for a single ticker
type Provider interface {
	GetQuote(ctx context.Context, ticker string) (entities.Quote, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, ticker string) (entities.Quote, error)

func (f ProviderFunc) GetQuote(ctx context.Context, ticker string) (entities.Quote, error) {
	return f(ctx, ticker)
}

// Router dispatches lookups to the provider registered for the longest
// matching ticker prefix, falling back to a default provider.
type Router struct {
	fallback Provider
	routes   []route
}

type route struct {
	prefix   string
	provider Provider
}

func NewRouter(fallback Provider) *Router {
	return &Router{fallback: fallback}
}

// Register routes tickers starting with prefix to p
func (r *Router) Register(prefix string, p Provider) *Router {
	r.routes = append(r.routes, route{prefix: entities.NormalizeTicker(prefix), provider: p})
	sort.SliceStable(r.routes, func(i, j int) bool {
		return len(r.routes[i].prefix) > len(r.routes[j].prefix)
	})
	return r
}

func (r *Router) GetQuote(ctx context.Context, ticker string) (entities.Quote, error) {
	normalized := entities.NormalizeTicker(ticker)
	for _, rt := range r.routes {
		if strings.HasPrefix(normalized, rt.prefix) {
			return rt.provider.GetQuote(ctx, normalized)
		}
	}
	if r.fallback == nil {
		return entities.Quote{}, fmt.Errorf("no quote provider for %s", normalized)
	}
	return r.fallback.GetQuote(ctx, normalized)
}
