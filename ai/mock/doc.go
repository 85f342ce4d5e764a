// Package mock provides test doubles for the ai package.
//
// The mock embedder produces deterministic hash-derived unit vectors by
// default and supports behavior injection through function fields, so
// tests can simulate provider failures without a live backend.
package mock
