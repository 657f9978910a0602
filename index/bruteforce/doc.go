// Package bruteforce provides the reference point index: a flat list of
// positions answering nearest-neighbor queries by scanning every entry. It
// serves as the correctness baseline for the k-d tree and as the cheaper
// choice for small point sets.
package bruteforce
