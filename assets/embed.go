package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed *.png
var bundledFS embed.FS

// SampleSheet is a 4x2 sheet of 64px tiles shipped with the editor.
const SampleSheet = "sample_sheet.png"

// Bundled returns the bytes of an embedded image.
func Bundled(name string) ([]byte, error) {
	clean := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "assets/")
	data, err := fs.ReadFile(bundledFS, clean)
	if err != nil {
		return nil, fmt.Errorf("assets: bundled %s: %w", name, err)
	}
	return data, nil
}

// BundledNames lists the embedded images.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundledFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
