// Package watch re-runs generation when the configuration file or the
// template directory changes. Filesystem events are collected by fsnotify and
// coalesced by a Debouncer so a burst of editor writes triggers one run.
package watch
