// Package session tracks interactive shell sessions.
//
// A session owns the per-user state the file system itself does not:
// the user name, home directory, current working directory, command
// history and input mode. Sessions live in memory; the tree they operate
// on is shared through the snapshot repository.
//
// Input mode is explicit. In ModeNormal each line is a command. After
// "edit <file>" the session switches to ModeEditing and buffers lines
// until a line reading EOF, at which point the shell writes the buffer.
//
//	manager := session.NewManager(500)
//	sess, err := manager.Create("alice", "")
//	sess.Record("ls -l")
package session
