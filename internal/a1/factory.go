package a1

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Adapter names as they appear in RIC configuration.
const (
	AdapterMediator      = "a1-mediator-rel-i"
	AdapterMediatorCCSDK = "a1-mediator-rel-i-ccsdk"
)

// Constructor builds a Client for one RIC.
type Constructor func(ric RicConfig, rest RestClientFactory, logger *zap.Logger) (Client, error)

// Registry maps adapter names to constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns a Registry with both built-in adapters registered.
func NewRegistry() *Registry {
	r := &Registry{constructors: map[string]Constructor{}}
	r.Register(AdapterMediator, newMediator)
	r.Register(AdapterMediatorCCSDK, newMediatorCCSDK)
	return r
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[strings.ToLower(name)] = ctor
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the client named by ric.Adapter. An empty adapter name
// selects the direct adapter.
func (r *Registry) Create(ric RicConfig, rest RestClientFactory, logger *zap.Logger) (Client, error) {
	name := strings.ToLower(strings.TrimSpace(ric.Adapter))
	if name == "" {
		name = AdapterMediator
	}

	r.mu.RLock()
	ctor, ok := r.constructors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q for ric %s", ErrUnknownAdapter, ric.Adapter, ric.ID)
	}
	return ctor(ric, rest, logger)
}

func newMediator(ric RicConfig, rest RestClientFactory, logger *zap.Logger) (Client, error) {
	// Direct URLs are absolute so the client gets no base.
	return NewMediatorClient(ric, rest(""), logger), nil
}

func newMediatorCCSDK(ric RicConfig, rest RestClientFactory, logger *zap.Logger) (Client, error) {
	if ric.Controller == nil {
		return nil, fmt.Errorf("%w for ric %s", ErrMissingController, ric.ID)
	}
	protocol := ric.Protocol
	if protocol == "" {
		protocol = DefaultProtocol
	}
	base := strings.TrimSuffix(ric.Controller.BaseURL, "/") + ControllerOperationsPath
	return NewCCSDKClient(protocol, ric, rest(base), logger)
}
