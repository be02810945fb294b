// Package storage provides blob stores for file system snapshots.
//
// Every backend stores opaque byte values under string keys:
//   - memory: process-local, lost on exit
//   - file: one file per key under a root directory, written atomically
//   - postgres: a single key/value table
//   - s3: one object per key in an S3-compatible bucket
//
// New selects a backend from Config.
package storage
