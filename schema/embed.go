// Package schema provides embedded JSON schemas for gmhelper configuration
// files and export records.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS
