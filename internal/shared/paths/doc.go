// Package paths provides path normalization for the virtual file system.
//
// Every path that reaches the tree is first passed through Normalize, which
// produces an absolute, slash-separated path with no empty, "." or ".."
// segments. Normalize is total and idempotent: Normalize(Normalize(p)) == Normalize(p).
//
// The package also names the canonical seed layout (Root, Bin, HomeRoot, Tmp)
// so that seeding and session defaults agree on where a user's home lives.
package paths
