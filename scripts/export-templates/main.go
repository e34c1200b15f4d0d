package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	spellgen "github.com/goliatone/go-spellgen"
)

// export-templates copies the embedded template set into a directory so it can
// be edited and passed back to spellgen with -templates.
func main() {
	var (
		outputDir = flag.String("output", "templates", "directory to write the templates into")
		force     = flag.Bool("force", false, "overwrite templates that already exist")
	)
	flag.Parse()

	if err := export(*outputDir, *force); err != nil {
		fmt.Fprintf(os.Stderr, "export templates: %v\n", err)
		os.Exit(1)
	}
}

func export(outputDir string, force bool) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	templates := spellgen.EmbeddedTemplates()
	return fs.WalkDir(templates, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		target := filepath.Join(outputDir, filepath.FromSlash(name))
		if !force {
			if _, err := os.Stat(target); err == nil {
				fmt.Printf("skip %s (exists)\n", target)
				return nil
			}
		}
		data, err := fs.ReadFile(templates, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", target)
		return nil
	})
}
