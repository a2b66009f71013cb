package loader

import (
	"context"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/fatura/internal/model"
)

// ParseYAML parses a record written as YAML, as used for CLI fixtures.
// The document is converted to JSON and handled by the regular adapters.
func (r *Registry) ParseYAML(ctx context.Context, content []byte) (*model.Bundle, error) {
	data, err := YAMLToJSON(content)
	if err != nil {
		return nil, err
	}
	return r.Parse(ctx, data)
}

// YAMLToJSON converts a YAML mapping into the equivalent JSON object
func YAMLToJSON(content []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, model.NewLoadError(schemaUnknown, "root", "invalid YAML", err)
	}
	if doc == nil {
		return nil, model.NewLoadError(schemaUnknown, "root", "empty YAML document", nil)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, model.NewLoadError(schemaUnknown, "root", "YAML document cannot be represented as JSON", err)
	}
	return data, nil
}
