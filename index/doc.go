// Package index defines the contract shared by the point indexes used by the
// best-candidate sampler: incremental insertion and nearest-neighbor queries
// with a pluggable distance metric. Implementations in this module include a
// brute-force baseline and a bucketed k-d tree.
package index
