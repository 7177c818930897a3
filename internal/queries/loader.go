// Package queries loads declarative query definitions from a YAML file.
//
// The file is a sequence of entries, each wrapping its filter fields in a
// "query" mapping:
//
//	- query:
//	    product: [Foo]
//	    status: [NEW, ASSIGNED]
//	    include_fields: [id, summary, component]
//
// Filter values accept both scalar and list YAML forms.
package queries

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/buglens/buglens/internal/models"
)

// includeFieldsKey is not a filter; it narrows the returned attribute set.
const includeFieldsKey = "include_fields"

type rawEntry struct {
	Query map[string]interface{} `yaml:"query"`
}

// Load reads and parses the query definitions file
func Load(path string) ([]models.QueryDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes query definitions from raw YAML
func Parse(data []byte) ([]models.QueryDefinition, error) {
	var entries []rawEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse query file: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("query file contains no query definitions")
	}

	definitions := make([]models.QueryDefinition, 0, len(entries))
	for i, entry := range entries {
		if entry.Query == nil {
			return nil, fmt.Errorf("query definition %d is missing the \"query\" key", i+1)
		}

		def := models.QueryDefinition{
			Filters: make(map[string][]string),
		}
		for field, value := range entry.Query {
			values, err := toStrings(value)
			if err != nil {
				return nil, fmt.Errorf("query definition %d, field %q: %w", i+1, field, err)
			}
			if field == includeFieldsKey {
				def.IncludeFields = values
				continue
			}
			def.Filters[field] = values
		}

		if len(def.Filters) == 0 {
			return nil, fmt.Errorf("query definition %d has no filter fields", i+1)
		}

		definitions = append(definitions, def)
	}

	return definitions, nil
}

// toStrings normalizes a YAML scalar or sequence into a string slice
func toStrings(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case int, int64, float64, bool:
		return []string{fmt.Sprintf("%v", v)}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case int, int64, float64, bool:
				out = append(out, fmt.Sprintf("%v", s))
			default:
				return nil, fmt.Errorf("unsupported value type %T", item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
