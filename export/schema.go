package export

import "github.com/invopop/jsonschema"

// Schema returns the JSON Schema of the Document format, for tools that
// validate exported grammars.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return r.Reflect(&Document{})
}
