// Package api hosts the HTTP server, middleware and handlers of the
// aggregation service. Notable routes:
//   - POST /api/workshop/details resolves a batch of identifiers.
//   - GET /list and GET /detail?id= serve the catalog.
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//
// Every pipeline response passes through a CachingResponder, which answers
// from the response cache when it can and writes fresh successes back to it
// in the background.
package api
