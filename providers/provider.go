// Package providers defines the adapter contract between the run
// pipeline and the cloud SDKs, plus the registry the CLI resolves
// adapters from.
package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cloudreaper/reap/types"
)

// ResourceAdapter covers one resource kind on one cloud. List returns
// normalized resources; a resource the adapter could not fully parse is
// returned with Invalid set rather than dropped, so the pipeline can
// report it.
type ResourceAdapter interface {
	Provider() string
	Kind() types.Kind

	List(ctx context.Context) ([]types.Resource, error)
	Delete(ctx context.Context, r types.Resource) error
	Stop(ctx context.Context, r types.Resource) error
}

// Config carries everything an adapter factory may need. Fields that a
// given cloud does not use are ignored by it.
type Config struct {
	Region         string
	ProjectID      string // GCP
	SubscriptionID string // Azure
	ResourceGroup  string // Azure, optional narrowing

	// KMSPendingWindowDays is the AWS KMS key deletion waiting period.
	KMSPendingWindowDays int32

	Logger zerolog.Logger
}

// Factory builds an adapter. Credential discovery happens here, so a
// misconfigured environment fails before any listing starts.
type Factory func(ctx context.Context, cfg Config) (ResourceAdapter, error)

type key struct {
	provider string
	kind     types.Kind
}

var (
	mu       sync.RWMutex
	registry = make(map[key]Factory)
)

// Register installs a factory for a (provider, kind) pair. Called from
// adapter package init functions.
func Register(provider string, kind types.Kind, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[key{provider, kind}] = factory
}

// Get resolves and builds the adapter for a (provider, kind) pair.
func Get(ctx context.Context, provider string, kind types.Kind, cfg Config) (ResourceAdapter, error) {
	mu.RLock()
	factory, ok := registry[key{provider, kind}]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no adapter for %s %s", provider, kind)
	}
	return factory(ctx, cfg)
}

// Supports reports whether an adapter is registered for the pair.
func Supports(provider string, kind types.Kind) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[key{provider, kind}]
	return ok
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	seen := make(map[string]struct{})
	for k := range registry {
		seen[k.provider] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KindsFor returns the kinds a provider supports, sorted.
func KindsFor(provider string) []types.Kind {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]types.Kind, 0, 8)
	for k := range registry {
		if k.provider == provider {
			kinds = append(kinds, k.kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
