package palette

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Upload is one user-supplied image file.
type Upload struct {
	Name string
	MIME string
	Data []byte
}

var imageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// IsImageFile reports whether name has an image extension the editor can
// decode.
func IsImageFile(name string) bool {
	_, ok := imageExts[strings.ToLower(path.Ext(name))]
	return ok
}

// MIMEFor guesses the media type from the file name.
func MIMEFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if m, ok := imageExts[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		return m
	}
	return ""
}

// ReadFiles reads uploads from disk, keeping the argument order.
func ReadFiles(paths ...string) ([]Upload, error) {
	uploads := make([]Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("palette: read %s: %w", p, err)
		}
		name := filepath.Base(p)
		uploads = append(uploads, Upload{Name: name, MIME: MIMEFor(name), Data: data})
	}
	return uploads, nil
}

// ReadFS collects every image file in fsys, sorted by path. Dropped files
// arrive this way.
func ReadFS(fsys fs.FS) ([]Upload, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsImageFile(p) {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("palette: walk uploads: %w", err)
	}
	sort.Strings(names)

	uploads := make([]Upload, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("palette: read %s: %w", name, err)
		}
		uploads = append(uploads, Upload{Name: path.Base(name), MIME: MIMEFor(name), Data: data})
	}
	return uploads, nil
}
