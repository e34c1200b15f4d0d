// Package render is the filesystem-facing side of generation: it ensures
// output directories exist and writes filled templates to paths under a base
// directory. Template lookup is delegated to a template.TemplateRenderer
// supplied at construction.
package render
