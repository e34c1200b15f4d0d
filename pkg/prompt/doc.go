// Package prompt asks for missing command-line arguments on an interactive
// terminal. The Driver interface abstracts the terminal so callers can be
// tested without one.
package prompt
