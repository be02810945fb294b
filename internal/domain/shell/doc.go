// Package shell turns input lines into provider commands.
//
// A line is split into words (single quotes, double quotes and backslash
// escapes are honoured), the first word is looked up in the command
// registry and the rest are passed as "args". Results flow back as an
// ExecResponse carrying the output, the session's new prompt and mode.
//
// Sessions in edit mode bypass command lookup: each line is buffered
// until a line reading EOF, and the buffer is then written to the file
// being edited.
package shell
