// Package kdtree implements an incrementally built 3D point k-d tree with
// bucketed leaves. Points are appended to leaf buckets until a bucket fills
// up, at which point it is split on the axis given by its depth. Nearest
// neighbor queries use branch-and-bound pruning against the splitting
// planes, so any metric that is bounded below by its single-axis distance
// (see spatial.Metric) returns the same answer as a linear scan.
//
// Nodes live in an index-addressed arena and are tagged as either a leaf
// bucket or a split node; a leaf that splits is replaced in place, so parent
// links never change.
//
// Entries left of a split satisfy position[axis] <= threshold and entries
// right of it position[axis] > threshold, except after a bucket full of
// copies of one point is split by rank: its right child then also holds
// entries equal to the threshold.
package kdtree
