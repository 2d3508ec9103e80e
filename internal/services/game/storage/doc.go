// Package storage defines how finished and in-progress games are persisted.
//
// A GameRecord is a flat row: the two player identities, the meta FEN of the
// grid and the bookkeeping the session needs to resume broadcasting. Backends
// live in subpackages (sqlite, bbolt, memory) and all report a missing record
// as ErrNotFound.
package storage
