// Package orchestrator wires the load -> decode -> render pipeline: it parses
// the configuration, builds one spell per record in order, renders each spell
// and finally writes the player default container that references them all.
package orchestrator
