package extract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/docscope/internal/models"
)

const maxRecordedKeys = 20

// extractJSON re-indents valid JSON for a readable body and records the
// top-level shape. Invalid JSON is a parse failure, not silently indexed.
func extractJSON(path string, raw []byte) (*Result, error) {
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("format JSON: %w", err)
	}
	meta := models.Metadata{}
	recordShape(meta, data)
	return &Result{Body: string(pretty), Meta: meta}, nil
}

// extractYAML validates the document and records the top-level shape; the
// body keeps the author's formatting.
func extractYAML(path string, raw []byte) (*Result, error) {
	var data interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	meta := models.Metadata{}
	recordShape(meta, data)
	return &Result{Body: string(raw), Meta: meta}, nil
}

func recordShape(meta models.Metadata, data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		meta.Set("key_count", strconv.Itoa(len(v)))
		n := 0
		for key := range v {
			if n >= maxRecordedKeys {
				break
			}
			meta.Add("keys", key)
			n++
		}
	case []interface{}:
		meta.Set("array_length", strconv.Itoa(len(v)))
	}
}
