// Package server exposes the c4x pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/render    {"source": "...", "theme": "modern", "format": "svg"}
//	POST /v1/layout    {"source": "..."}               -> layout JSON
//	POST /v1/validate  {"source": "..."}               -> diagnostics
//	GET  /v1/themes
//	GET  /healthz
//
// Render responds with the artifact itself (image/svg+xml, text/vnd.graphviz
// or application/json) and an X-Cache header of HIT or MISS. Diagram errors
// are 422 with the error kind, code and 1-based line and column; request
// errors are 400. Validate always answers 200 and reports problems in its
// diagnostics list.
//
// Every response carries an X-Request-ID. The POST routes are rate limited
// per client address with a token bucket and bounded in body size.
package server
