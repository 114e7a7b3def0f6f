package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/verdiscan/label-backend/constants"
)

// BuildLabelJSONSchema returns the label record schema (draft 2020-12 subset)
// as a generic map. Values are nullable; bio/prepacked also accept booleans.
func BuildLabelJSONSchema() map[string]any {
	props := make(map[string]any, len(constants.LabelFieldKeys))
	for _, k := range constants.LabelFieldKeys {
		switch k {
		case "bio", "prepacked":
			props[k] = map[string]any{"type": []string{"boolean", "string", "null"}}
		case "piece_count", "calibre", "net_weight":
			props[k] = map[string]any{"type": []string{"string", "number", "null"}}
		default:
			props[k] = map[string]any{"type": []string{"string", "null"}}
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

// BuildDeliveryNoteJSONSchema returns the delivery note schema as a generic map.
func BuildDeliveryNoteJSONSchema() map[string]any {
	rootProps := make(map[string]any, len(constants.DeliveryNoteRootKeys)+1)
	for _, k := range constants.DeliveryNoteRootKeys {
		rootProps[k] = map[string]any{"type": []string{"string", "null"}}
	}
	itemProps := make(map[string]any, len(constants.LineItemKeys))
	for _, k := range constants.LineItemKeys {
		if k == "quantity" {
			itemProps[k] = map[string]any{"type": []string{"string", "number", "null"}}
			continue
		}
		itemProps[k] = map[string]any{"type": []string{"string", "null"}}
	}
	rootProps["items"] = map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"properties": itemProps,
		},
	}
	return map[string]any{
		"type":       "object",
		"properties": rootProps,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
