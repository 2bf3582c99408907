// Package ui provides semantic text formatting for mucli output.
//
// Formatters colourise content by meaning (paths, commands, versions) and fall
// back to plain text decorations when NO_COLOR is set or the terminal cannot
// render colour:
//
//	ui.Path.Sprint("notes/enc.todo.txt")
//	ui.FormatVersion(3)              // v3
//	ui.Failure("%s does not exist", path)
//
// The Success, Failure and Hint helpers build the one-line status messages
// printed at the end of a command.
package ui
