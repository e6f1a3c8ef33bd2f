package provider

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Dependencies are the shared runtime values a handler factory needs to
// construct a provider: a resolved AWS configuration and the process logger.
type Dependencies struct {
	AWSConfig aws.Config
	Logger    *slog.Logger
}

// Factory constructs a Handler for one resource type.
type Factory func(deps Dependencies) (Handler, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register associates a resource type name (e.g.
// "AWS::Organizations::OrganizationalUnit") with its handler factory.
// Providers register themselves from an init function; registering the same
// type twice is a programming error.
func Register(typeName string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[typeName]; exists {
		panic(fmt.Sprintf("provider: duplicate registration for %s", typeName))
	}
	registry[typeName] = f
}

// Lookup returns the factory for a resource type name.
func Lookup(typeName string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[typeName]
	return f, ok
}

// TypeNames returns the registered resource type names, sorted.
func TypeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
