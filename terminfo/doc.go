// Package terminfo reads compiled (legacy 16-bit) terminfo descriptions.
//
// A Database holds the boolean, numeric and string capability tables of one
// terminal type, indexed by the standard ncurses capability ordinals. Only the
// standard section is read; the extended (user-defined) section that may
// follow the string table is ignored.
//
// Databases are normally obtained with Load, which searches the usual
// terminfo directories and falls back to the descriptions compiled into
// tcell when no usable file exists.
package terminfo
