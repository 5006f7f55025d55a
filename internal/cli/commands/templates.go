package commands

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed all:templates
var templateFS embed.FS

// scaffoldFile is one file of an init template.
type scaffoldFile struct {
	src  string // path inside templateFS
	dest string // name relative to the target directory
}

// scaffold lists the files of a template. Templates are flat; a file named
// "gitignore" is written as ".gitignore" so the embed keeps it.
func scaffold(name string) ([]scaffoldFile, error) {
	root := path.Join("templates", name)
	entries, err := fs.ReadDir(templateFS, root)
	if err != nil {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	files := make([]scaffoldFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		dest := e.Name()
		if dest == "gitignore" {
			dest = ".gitignore"
		}
		files = append(files, scaffoldFile{src: path.Join(root, e.Name()), dest: dest})
	}
	return files, nil
}

// writeScaffold writes the template into dir. Existing files are left in
// place unless force is set; their names come back in skipped.
func writeScaffold(name, dir string, force bool) (written, skipped []string, err error) {
	files, err := scaffold(name)
	if err != nil {
		return nil, nil, err
	}

	for _, f := range files {
		target := filepath.Join(dir, f.dest)
		if !force {
			if _, err := os.Stat(target); err == nil {
				skipped = append(skipped, f.dest)
				continue
			}
		}
		content, err := templateFS.ReadFile(f.src)
		if err != nil {
			return written, skipped, err
		}
		if err := os.WriteFile(target, content, 0o600); err != nil {
			return written, skipped, err
		}
		written = append(written, f.dest)
	}
	return written, skipped, nil
}
