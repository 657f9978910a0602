// Package sampler generates blue-noise point sets with best-candidate
// sampling. Starting from a seed point, every new point is chosen from a
// batch of random candidates inside a cylinder as the candidate farthest
// from all points accepted so far; the batch grows with the number of
// accepted points. The nearest-point queries go through an index.Index,
// either a k-d tree or the brute-force baseline.
package sampler
