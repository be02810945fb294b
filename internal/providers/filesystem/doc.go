// Package filesystem provides the shell's file commands over the virtual
// file system.
//
// The package is organized into specialized modules:
//   - navigation: ls, cd, pwd
//   - content: cat, head, tail, wc, grep, edit, write
//   - operations: mkdir, touch, rm, rmdir, mv, cp, chmod, clear_fs
//   - search: find
//   - metadata: file, stat
//
// Every command receives its arguments as "args" and resolves paths against
// the calling session's working directory and home. Mutating commands run
// inside one repository load/mutate/save cycle; read-only commands only load.
//
// Results carry shell text under "output" and, where useful, structured data
// alongside it (entries, counts, matches). Failures use the conventional
// shell wording, e.g. "rm: cannot remove 'x': No such file or directory".
package filesystem
