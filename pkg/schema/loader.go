package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a raw JSON or YAML schema document into a Document. Both
// formats go through the YAML parser (JSON is a YAML subset) because its node
// API preserves property declaration order, which renderers depend on.
func Parse(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	var parsed yaml.Node
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return Document{}, fmt.Errorf("schema: decode document: %w", err)
	}
	body := &parsed
	if body.Kind == yaml.DocumentNode && len(body.Content) > 0 {
		body = body.Content[0]
	}
	if body.Kind != yaml.MappingNode {
		return Document{}, errors.New("schema: document root must be a mapping")
	}

	root, err := buildNode(body)
	if err != nil {
		return Document{}, err
	}

	definitions, err := collectDefinitions(body)
	if err != nil {
		return Document{}, err
	}

	return NewDocument(src, root, definitions)
}

// Load reads and parses a document identified by a file or URL source.
// fs.FS-backed sources go through LoadFS instead, since they need the
// filesystem handle.
func Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	switch src.Kind() {
	case SourceKindFile:
		raw, err := os.ReadFile(src.Location())
		if err != nil {
			return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
		}
		return Parse(src, raw)
	case SourceKindURL:
		raw, err := fetch(ctx, src.Location())
		if err != nil {
			return Document{}, err
		}
		return Parse(src, raw)
	default:
		return Document{}, fmt.Errorf("schema: source kind %q not loadable here", src.Kind())
	}
}

// LoadFS reads and parses a document from an fs.FS entry.
func LoadFS(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, errors.New("schema: fs is required")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(SourceFromFS(name), raw)
}

func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: request %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schema: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schema: fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("schema: fetch %s: %w", rawURL, err)
	}
	return raw, nil
}

func collectDefinitions(body *yaml.Node) (map[string]Node, error) {
	definitions := make(map[string]Node)
	for _, key := range []string{"definitions", "$defs"} {
		section := mappingValue(body, key)
		if section == nil {
			continue
		}
		if err := definitionsInto(section, definitions); err != nil {
			return nil, err
		}
	}
	if components := mappingValue(body, "components"); components != nil {
		if section := mappingValue(components, "schemas"); section != nil {
			if err := definitionsInto(section, definitions); err != nil {
				return nil, err
			}
		}
	}
	return definitions, nil
}

func definitionsInto(section *yaml.Node, out map[string]Node) error {
	if section.Kind != yaml.MappingNode {
		return errors.New("schema: definitions must be a mapping")
	}
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		node, err := buildNode(section.Content[i+1])
		if err != nil {
			return fmt.Errorf("schema: definition %q: %w", name, err)
		}
		out[name] = node
	}
	return nil
}

func buildNode(body *yaml.Node) (Node, error) {
	if body.Kind == yaml.AliasNode {
		body = body.Alias
	}
	if body.Kind != yaml.MappingNode {
		return Node{}, errors.New("schema: node must be a mapping")
	}

	var node Node
	for i := 0; i+1 < len(body.Content); i += 2 {
		key := body.Content[i].Value
		value := body.Content[i+1]

		var err error
		switch key {
		case "$ref":
			node.Ref = value.Value
		case "type":
			node.Type, err = scalarType(value)
		case "format":
			node.Format = value.Value
		case "title":
			node.Title = value.Value
		case "description":
			node.Description = value.Value
		case "default":
			err = value.Decode(&node.Default)
		case "example":
			err = value.Decode(&node.Example)
		case "const":
			err = value.Decode(&node.Const)
		case "enum":
			err = value.Decode(&node.Enum)
		case "properties":
			node.Properties, err = buildProperties(value)
		case "required":
			err = value.Decode(&node.Required)
		case "items":
			node.Items, err = buildChild(value)
		case "additionalProperties":
			node.AdditionalProperties, err = buildAdditional(value)
		case "oneOf":
			node.OneOf, err = buildList(value)
		case "anyOf":
			node.AnyOf, err = buildList(value)
		case "discriminator":
			node.Discriminator = discriminatorName(value)
		case "minimum":
			node.Minimum, err = floatPtr(value)
		case "maximum":
			node.Maximum, err = floatPtr(value)
		case "exclusiveMinimum":
			err = exclusiveBound(value, &node.Minimum, &node.ExclusiveMinimum)
		case "exclusiveMaximum":
			err = exclusiveBound(value, &node.Maximum, &node.ExclusiveMaximum)
		case "multipleOf":
			node.MultipleOf, err = floatPtr(value)
		case "minLength":
			node.MinLength, err = intPtr(value)
		case "maxLength":
			node.MaxLength, err = intPtr(value)
		case "pattern":
			node.Pattern = value.Value
		case "minItems":
			node.MinItems, err = intPtr(value)
		case "maxItems":
			node.MaxItems, err = intPtr(value)
		case "uniqueItems":
			err = value.Decode(&node.UniqueItems)
		case "readOnly":
			err = value.Decode(&node.ReadOnly)
		case "writeOnly":
			err = value.Decode(&node.WriteOnly)
		case "contentMediaType":
			node.ContentMediaType = value.Value
		default:
			if strings.HasPrefix(key, "x-") {
				var ext any
				if err = value.Decode(&ext); err == nil {
					if node.Extensions == nil {
						node.Extensions = make(map[string]any)
					}
					node.Extensions[key] = ext
				}
			}
		}
		if err != nil {
			return Node{}, fmt.Errorf("schema: key %q: %w", key, err)
		}
	}
	return node, nil
}

func buildProperties(value *yaml.Node) ([]Property, error) {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return nil, errors.New("properties must be a mapping")
	}
	props := make([]Property, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		child, err := buildNode(value.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, Property{Name: name, Node: child})
	}
	return props, nil
}

func buildChild(value *yaml.Node) (*Node, error) {
	child, err := buildNode(value)
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// buildAdditional handles both the boolean and the schema form of
// additionalProperties. `true` maps to an unconstrained value node; `false`
// maps to nil (no dict entries allowed).
func buildAdditional(value *yaml.Node) (*Node, error) {
	if value.Kind == yaml.ScalarNode {
		var allowed bool
		if err := value.Decode(&allowed); err != nil {
			return nil, err
		}
		if !allowed {
			return nil, nil
		}
		return &Node{}, nil
	}
	return buildChild(value)
}

func buildList(value *yaml.Node) ([]Node, error) {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.SequenceNode {
		return nil, errors.New("expected a sequence")
	}
	out := make([]Node, 0, len(value.Content))
	for _, entry := range value.Content {
		child, err := buildNode(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// scalarType accepts "type": "string" and the ["string", "null"] union form;
// the null member only signals optionality and is dropped.
func scalarType(value *yaml.Node) (string, error) {
	if value.Kind == yaml.ScalarNode {
		return value.Value, nil
	}
	if value.Kind == yaml.SequenceNode {
		for _, entry := range value.Content {
			if entry.Value != "null" {
				return entry.Value, nil
			}
		}
		return "", nil
	}
	return "", errors.New("type must be a scalar or sequence")
}

func discriminatorName(value *yaml.Node) string {
	if value.Kind == yaml.ScalarNode {
		return value.Value
	}
	if prop := mappingValue(value, "propertyName"); prop != nil {
		return prop.Value
	}
	return ""
}

// exclusiveBound supports both the draft-4 boolean flag and the 2020-12
// numeric form of exclusiveMinimum/exclusiveMaximum.
func exclusiveBound(value *yaml.Node, bound **float64, flag *bool) error {
	var asBool bool
	if err := value.Decode(&asBool); err == nil {
		*flag = asBool
		return nil
	}
	ptr, err := floatPtr(value)
	if err != nil {
		return err
	}
	*bound = ptr
	*flag = true
	return nil
}

func floatPtr(value *yaml.Node) (*float64, error) {
	var out float64
	if err := value.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func intPtr(value *yaml.Node) (*int, error) {
	var out int
	if err := value.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func mappingValue(body *yaml.Node, key string) *yaml.Node {
	if body == nil || body.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		if body.Content[i].Value == key {
			return body.Content[i+1]
		}
	}
	return nil
}
