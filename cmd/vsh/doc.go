// Package main is vsh, a terminal front end for the vshell shell.
//
// By default the shell runs in-process and its file system is persisted
// under ./data, so state survives between runs. With -remote it drives a
// session on a running vshell server instead.
//
// Usage:
//
//	# Local shell persisted to ./data
//	./vsh
//
//	# YAML snapshot in a custom directory
//	./vsh -data ~/.vsh -codec yaml
//
//	# Attach to a server
//	./vsh -remote http://localhost:8000 -user alice
//
// Type exit or logout to leave.
package main
