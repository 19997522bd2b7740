// Package cli renders mpcalc results on the terminal and runs the
// interactive session.
//
// Functions follow the naming pattern of the rest of the command:
//
//   - Present* methods of [Presenter] write a result as text or JSON.
//   - Format* functions return a string without performing I/O.
//   - Generate* functions write scripts, such as [GenerateCompletion].
package cli
