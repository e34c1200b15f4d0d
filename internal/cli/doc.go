// Package cli parses command-line arguments for spellgen, layering flags over
// settings resolved from the environment.
package cli
