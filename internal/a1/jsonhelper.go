package a1

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	createSchemaField = "create_schema"
	titleField        = "title"
)

// parseJSONArrayOfString turns a JSON array into strings. Non-string elements
// are rendered in their JSON text form, so [1, "1"] gives ["1", "1"]. An empty
// payload is an empty list.
func parseJSONArrayOfString(payload string) ([]string, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, nil
	}
	if !gjson.Valid(payload) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrInvalidIDList)
	}
	arr := gjson.Parse(payload)
	if !arr.IsArray() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidIDList, arr.Type)
	}

	var out []string
	arr.ForEach(func(_, value gjson.Result) bool {
		out = append(out, value.String())
		return true
	})
	return out, nil
}

// extractCreateSchema picks the schema out of a policy type document and sets
// its title to policyTypeID. The nested create_schema object is preferred;
// when it is absent or not an object the whole document is used. Only the
// title member changes, every other byte of the schema is kept.
func extractCreateSchema(document, policyTypeID string) (string, error) {
	if !gjson.Valid(document) {
		return "", &SchemaError{PolicyTypeID: policyTypeID, Err: ErrSchemaParse}
	}

	if nested := gjson.Get(document, createSchemaField); nested.IsObject() {
		return setTitle(nested.Raw, policyTypeID)
	}
	if gjson.Parse(document).IsObject() {
		return setTitle(document, policyTypeID)
	}
	return "", &SchemaError{PolicyTypeID: policyTypeID, Err: ErrSchemaShape}
}

func setTitle(schema, policyTypeID string) (string, error) {
	out, err := sjson.Set(strings.TrimSpace(schema), titleField, policyTypeID)
	if err != nil {
		return "", &SchemaError{PolicyTypeID: policyTypeID, Err: fmt.Errorf("%w: %v", ErrSchemaShape, err)}
	}
	return out, nil
}
