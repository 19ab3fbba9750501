// Package schema validates the free-form props of content elements.
//
// A Schema maps prop keys to Types. Keys are required unless wrapped in
// Optional. Schemas can be built in code or parsed from type strings, which
// is how workflow definitions attach extra constraints to validate steps:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "text":     "string",
//	    "fontSize": "number?",
//	    "color":    "color?",
//	})
//
// ForElement returns the built-in schema for an element type, and
// ValidateElement checks an element against it.
package schema
