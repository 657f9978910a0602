// Package nearest provides the bn_nearest SQLite virtual table: a
// nearest-point lookup over a points table, answered by an incremental
// index that picks up newly placed rows on every query.
//
//	CREATE VIRTUAL TABLE nn USING bn_nearest(metric=euclidean, index=kdtree, capacity=4096);
//	SELECT id, distance FROM nn WHERE position MATCH '1.5,0,-2';
//
// The MATCH argument is an encoded point BLOB or an "x,y,z" string. Without
// MATCH the table lists the indexed points. The index reads the source table
// through its own connection, so the database must be file backed.
package nearest
