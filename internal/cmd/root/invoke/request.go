package invoke

import (
	"encoding/json"
	"fmt"

	"github.com/rob3c/aws-resource-providers/internal/provider"
	"gopkg.in/yaml.v3"
)

// requestDocument is the on-disk shape of one handler invocation. YAML is a
// superset of JSON, so documents may be written in either.
type requestDocument struct {
	DesiredResourceState  map[string]any `yaml:"desiredResourceState"`
	PreviousResourceState map[string]any `yaml:"previousResourceState"`
	CallbackContext       map[string]any `yaml:"callbackContext"`
}

// parseRequestDocument normalizes a request document into the provider
// request contract, converting the declarative states to JSON documents.
func parseRequestDocument(data []byte, action provider.Action) (provider.Request, error) {
	var doc requestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return provider.Request{}, fmt.Errorf("failed to parse request document: %w", err)
	}

	req := provider.Request{
		Action:          action,
		CallbackContext: doc.CallbackContext,
	}

	if doc.DesiredResourceState != nil {
		b, err := json.Marshal(doc.DesiredResourceState)
		if err != nil {
			return provider.Request{}, fmt.Errorf("failed to encode desired state: %w", err)
		}
		req.DesiredResourceState = b
	}
	if doc.PreviousResourceState != nil {
		b, err := json.Marshal(doc.PreviousResourceState)
		if err != nil {
			return provider.Request{}, fmt.Errorf("failed to encode previous state: %w", err)
		}
		req.PreviousResourceState = b
	}

	return req, nil
}
