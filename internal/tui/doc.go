// Package tui is the interactive front end of dllpatch: one checkbox per
// toggle rule and one radio group per union rule, grouped by file.
//
// Every action writes through to the target file immediately. Rules whose
// bytes are not recognized render as [?] and can still be applied.
package tui
