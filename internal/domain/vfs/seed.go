package vfs

import (
	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// Seed file contents.
const (
	WelcomeText = "Welcome to Linux Terminal Emulator!\n\n" +
		"This is a simulated terminal. All data lives in a virtual file system snapshot.\n\n" +
		"Try these commands:\n" +
		"- ls\n" +
		"- cd [directory]\n" +
		"- cat [file]\n" +
		"- help\n\n" +
		"For more commands, type 'help'."
	BashrcText = "# default .bashrc file"
	NotesText  = "Linux is great!\nProgramming is fun.\nBuild cool stuff."
)

// Seed builds the canonical starter layout for user:
//
//	/            rwxr-xr-x
//	/bin         rwxr-xr-x
//	/home/<user> rwxr-xr-x  welcome.txt .bashrc notes.txt
//	/tmp         rwxrwxrwx
func Seed(user string) *Tree {
	t := NewTree()
	root := t.Root

	root.Dirs["bin"] = NewDirectory(DefaultDirPerms)

	home := NewDirectory(DefaultDirPerms)
	home.Files["welcome.txt"] = NewFile(WelcomeText)
	home.Files[".bashrc"] = NewFile(BashrcText)
	home.Files["notes.txt"] = NewFile(NotesText)

	homeRoot := NewDirectory(DefaultDirPerms)
	homeRoot.Dirs[user] = home
	root.Dirs[paths.Base(paths.HomeRoot)] = homeRoot

	root.Dirs[paths.Base(paths.Tmp)] = NewDirectory(WorldDirPerms)
	return t
}
