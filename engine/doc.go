// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening connections and registering the SQL scalar
// distance function used for SQL-side nearest point scans. It keeps a thin
// surface so other packages share the same driver instance.
package engine
