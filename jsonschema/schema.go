package jsonschema

// Schema is a minimal JSON Schema (OpenAPI flavoured) representation used for
// export. Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Ref      string `json:"$ref,omitempty"`
	Type     string `json:"type,omitempty"`
	Format   string `json:"format,omitempty"`
	Title    string `json:"title,omitempty"`
	Enum     []any  `json:"enum,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf         []*Schema      `json:"oneOf,omitempty"`
	AnyOf         []*Schema      `json:"anyOf,omitempty"`
	Discriminator *Discriminator `json:"discriminator,omitempty"`
}

// Visiting records the models on the current projection path so a model
// reached again through its own fields projects as a $ref. One value belongs
// to one projection call.
type Visiting map[any]struct{}

// Discriminator mirrors the OpenAPI discriminator object.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}
