// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, derived queries, page and slice windows, and upsert
// support, plus the member and team repositories built on it.
package repository
