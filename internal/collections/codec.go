package collections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "collection-document.json"

// documentSchema accepts an array of objects that carry string id and slug
// fields. Anything else on disk is reported as a read failure.
const documentSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "slug"],
    "properties": {
      "id": {"type": "string"},
      "slug": {"type": "string"},
      "title": {"type": "string"},
      "category": {"type": "string"},
      "tags": {
        "type": ["array", "null"],
        "items": {"type": "string"}
      }
    }
  }
}`

var compileDocumentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return CompileSchema(documentSchemaURL, documentSchema)
})

// DocumentSchema returns the compiled schema every stored document must
// satisfy.
func DocumentSchema() (*jsonschema.Schema, error) {
	return compileDocumentSchema()
}

// CompileSchema compiles a draft 2020-12 JSON Schema held in source.
func CompileSchema(url, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("collections: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("collections: compile schema: %w", err)
	}
	return schema, nil
}

// Encode renders records as a pretty-printed JSON array with two-space
// indentation and a trailing newline. A nil slice encodes as [].
func Encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode validates data against schema, when one is given, and decodes it
// into records. Blank input decodes to an empty collection.
func Decode[T any](data []byte, schema *jsonschema.Schema) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	if schema != nil {
		var doc any
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("document does not match collection schema: %w", err)
		}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
