// Package handlers implements the HTTP handlers for the FretScout API.
// JSON endpoints are registered through huma; the health checks are plain
// Echo handlers.
package handlers
