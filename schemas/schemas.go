// Package schemas holds the JSON Schemas shipped with autosac.
package schemas

import _ "embed"

// ConfigSchemaJSON is the schema for the check list config file.
//
//go:embed autosac.schema.json
var ConfigSchemaJSON string
