package migrations

import "embed"

// FS carries the schema migrations inside the binary so a deployment is
// a single artifact.
//
//go:embed *.sql
var FS embed.FS
