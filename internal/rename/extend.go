package rename

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// extensionSchema constrains user-supplied rename-table extension files
// (-extra-mappings), the same way cmd/uast/validate.go schema-checks its
// mapping DSL files before loading them.
const extensionSchema = `{
  "type": "object",
  "properties": {
    "ident": {"type": "object", "additionalProperties": {"$ref": "#/definitions/entry"}},
    "type": {"type": "object", "additionalProperties": {"$ref": "#/definitions/entry"}},
    "include": {"type": "object", "additionalProperties": {"$ref": "#/definitions/entry"}}
  },
  "additionalProperties": false,
  "definitions": {
    "entry": {
      "type": "object",
      "required": ["dst_name"],
      "properties": {
        "dst_name": {"type": "string"},
        "conv_type": {"type": "string"},
        "api_family": {"type": "string"},
        "unsupported": {"type": "boolean"}
      }
    }
  }
}`

type extensionEntry struct {
	DSTName     string `yaml:"dst_name" json:"dst_name"`
	ConvType    string `yaml:"conv_type" json:"conv_type"`
	APIFamily   string `yaml:"api_family" json:"api_family"`
	Unsupported bool   `yaml:"unsupported" json:"unsupported"`
}

type extensionFile struct {
	Ident   map[string]extensionEntry `yaml:"ident" json:"ident"`
	Type    map[string]extensionEntry `yaml:"type" json:"type"`
	Include map[string]extensionEntry `yaml:"include" json:"include"`
}

func parseConvType(s string) ConvType {
	switch s {
	case "kernel":
		return ConvKernel
	case "memory":
		return ConvMemory
	case "stream":
		return ConvStream
	case "event":
		return ConvEvent
	case "device":
		return ConvDevice
	case "include":
		return ConvInclude
	case "literal":
		return ConvLiteral
	case "type":
		return ConvType_
	default:
		return ConvOther
	}
}

func parseAPIFamily(s string) APIFamily {
	switch s {
	case "driver":
		return FamilyDriver
	case "builtin":
		return FamilyBuiltin
	case "math":
		return FamilyMath
	default:
		return FamilyRuntime
	}
}

// LoadExtension reads a YAML rename-table extension file, validates it
// against extensionSchema, and merges its entries into t. Entries in the
// extension file take precedence over compiled-in entries with the same
// key.
func (t *Tables) LoadExtension(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read extension file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse extension file: %w", err)
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize extension file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(extensionSchema)
	docLoader := gojsonschema.NewBytesLoader(asJSON)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate extension file: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return fmt.Errorf("extension file %s failed validation: %v", path, msgs)
	}

	var ext extensionFile
	if err := json.Unmarshal(asJSON, &ext); err != nil {
		return fmt.Errorf("decode extension file: %w", err)
	}

	merge := func(dst map[string]Entry, src map[string]extensionEntry) {
		for k, v := range src {
			dst[k] = Entry{
				DSTName:     v.DSTName,
				ConvType:    parseConvType(v.ConvType),
				APIFamily:   parseAPIFamily(v.APIFamily),
				Unsupported: v.Unsupported,
			}
		}
	}

	merge(t.Ident, ext.Ident)
	merge(t.Type, ext.Type)
	merge(t.Include, ext.Include)

	return nil
}
