// Package workshop defines the records, identifiers, cache keys and error
// taxonomy shared by the aggregation pipeline, the upstream gateway and the
// HTTP surface.
package workshop
