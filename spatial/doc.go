// Package spatial defines the 3D point type shared by the indexes, the
// sampler and the stores, together with the distance metrics that can be
// injected into an index and a compact BLOB encoding used for persistence.
package spatial
