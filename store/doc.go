// Package store provides the object store that sits beside a point index:
// the index only hands out numeric ids, and the store keeps the object placed
// at each id's position so callers can later resolve an id returned by a
// nearest-neighbor query. It includes:
//   - Store contract and Object model
//   - MemoryStore: fixed-capacity in-process store
//   - SQLiteStore: durable store with a SQL-side nearest point scan
package store
