// Package template defines the engine seam the renderer fills templates
// through. Engines are plain values handed to the renderer at construction.
package template
