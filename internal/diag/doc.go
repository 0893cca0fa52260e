// Package diag defines positioned compilation errors and their codes.
//
// The compiler is fail-fast: every phase returns at most one *Error and
// the first one aborts the program's compilation. Code is the stable
// identity of an error; the message text is free-form and may change.
// Rendering for terminals lives in render.go; everything else treats
// *Error as a plain Go error value.
package diag
