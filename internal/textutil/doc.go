// Package textutil provides text cleanup helpers for user-supplied names.
package textutil
