// Package deps reports whether the external binaries footage shells out to
// are installed.
package deps
