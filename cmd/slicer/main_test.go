package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilescape/assets"
	"github.com/milk9111/tilescape/logging"
)

func TestSliceToDir(t *testing.T) {
	img, name, err := readSheet("")
	if err != nil {
		t.Fatalf("read bundled sheet: %v", err)
	}
	if name != assets.SampleSheet {
		t.Fatalf("name = %q", name)
	}

	dir := t.TempDir()
	n, err := sliceToDir(img, name, 2, 4, dir, 3, logging.Discard())
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if n != 8 {
		t.Fatalf("written = %d, want 8", n)
	}

	f, err := os.Open(filepath.Join(dir, "sample_sheet_0.png"))
	if err != nil {
		t.Fatalf("open first tile: %v", err)
	}
	defer f.Close()
	tile, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode first tile: %v", err)
	}
	if b := tile.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("tile size = %v, want 64x64", b)
	}
	got := color.NRGBAModel.Convert(tile.At(32, 32)).(color.NRGBA)
	want := color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	if got != want {
		t.Fatalf("center pixel = %v, want %v", got, want)
	}
}

func TestSliceToDirRejectsEmptyGrid(t *testing.T) {
	img, name, err := readSheet("")
	if err != nil {
		t.Fatalf("read bundled sheet: %v", err)
	}
	if _, err := sliceToDir(img, name, 0, 4, t.TempDir(), 1, logging.Discard()); err == nil {
		t.Fatalf("expected an error for zero rows")
	}
}
