package render

import (
	"go/build"
	"strings"
	"testing"
)

func TestHeadlessPackagesDoNotLinkEbiten(t *testing.T) {
	for _, dir := range []string{".", "../palette", "../cmd/mapshot"} {
		pkg, err := build.ImportDir(dir, 0)
		if err != nil {
			t.Fatalf("%s: %v", dir, err)
		}
		for _, imp := range pkg.Imports {
			if strings.HasPrefix(imp, "github.com/hajimehoshi/ebiten") || strings.HasSuffix(imp, "/render/gpu") {
				t.Fatalf("%s imports %s", dir, imp)
			}
		}
	}
}
