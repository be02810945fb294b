// Package vfs implements an in-memory hierarchical file system.
//
// The tree is a strictly owned recursive structure: every Directory owns its
// child directories and files, nothing is shared and there are no parent
// pointers. Copies are deep (Clone) and moves detach a single node from one
// parent and attach it to another.
//
// Organization:
//   - node: Directory, File and Tree types plus deep cloning
//   - resolve: path to entry lookups (ResolveDirectory, ResolveFile, ResolveForMutation)
//   - mutate: mkdir, touch, write, remove, rmdir, move, copy, chmod
//   - query: list, read, head/tail, count, grep, find
//   - seed: the canonical starter layout
//   - codec, snapshot: whole-tree persistence on top of a blob store
//   - import: seeding a subtree from a host directory
//
// All tree methods take normalized paths (see the paths package). Permission
// strings are stored and displayed but never enforced.
package vfs
