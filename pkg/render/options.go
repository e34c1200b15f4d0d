package render

import "io/fs"

// Option customises a Renderer.
type Option func(*Renderer)

// WithDirMode sets the permission bits used for created directories.
func WithDirMode(mode fs.FileMode) Option {
	return func(r *Renderer) {
		if mode != 0 {
			r.dirMode = mode
		}
	}
}

// WithFileMode sets the permission bits used for written files.
func WithFileMode(mode fs.FileMode) Option {
	return func(r *Renderer) {
		if mode != 0 {
			r.fileMode = mode
		}
	}
}
