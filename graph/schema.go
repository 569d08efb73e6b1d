// Package graph holds the schema of the todo GraphQL server this application
// reads from.
package graph

import _ "embed"

// Schema is the SDL of the remote todo server.
//
//go:embed schema.graphqls
var Schema string
