package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, prefix int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, c)
	}
	var buf bytes.Buffer
	buf.Write(make([]byte, prefix))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexResolvesByStem(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "Skin", "Hero.png"), 0, color.NRGBA{255, 0, 0, 255})
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	idx := BuildIndex(dir, filepath.Join(dir, "missing"))
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", idx.Len())
	}
	path, ok := idx.ResolvePath(`Player\hero.jpg`)
	if !ok || filepath.Base(path) != "Hero.png" {
		t.Errorf("expected Hero.png, got %q %v", path, ok)
	}
	if _, ok := idx.ResolvePath("villain.jpg"); ok {
		t.Error("expected villain to be unresolved")
	}
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "cape.jpg"), []byte("jpg"), 0o644)
	os.WriteFile(filepath.Join(dir, "cape.ozt"), []byte("ozt"), 0o644)
	os.WriteFile(filepath.Join(dir, "cape.ozj"), []byte("ozj"), 0o644)

	path, _ := BuildIndex(dir).ResolvePath("cape.jpg")
	if filepath.Ext(path) != ".ozt" {
		t.Errorf("expected .ozt to win, got %s", path)
	}
}

func TestCacheDecodesOnce(t *testing.T) {
	dir := t.TempDir()
	want := color.NRGBA{10, 20, 30, 255}
	writePNG(t, filepath.Join(dir, "hero.png"), 0, want)

	c := NewCache(BuildIndex(dir), nil)
	a := c.Resolve("hero.jpg")
	if a == nil {
		t.Fatal("expected texture")
	}
	if got := a.NRGBAAt(1, 1); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if b := c.Resolve("HERO.bmp"); b != a {
		t.Error("expected cached image on second resolve")
	}
	if c.Resolve("nope") != nil {
		t.Error("expected nil for unknown texture")
	}
}

func TestLoadRejectsShortContainers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ozj")
	os.WriteFile(path, make([]byte, 10), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for short OZJ")
	}
	if _, err := Load(filepath.Join(dir, "x.bmp")); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestLoadDecodesByExtension(t *testing.T) {
	dir := t.TempDir()
	want := color.NRGBA{200, 40, 40, 255}
	writePNG(t, filepath.Join(dir, "plain.png"), 0, want)

	img, err := Load(filepath.Join(dir, "plain.png"))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}

	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			src.SetNRGBA(x, y, want)
		}
	}
	var buf bytes.Buffer
	buf.Write(make([]byte, ozjHeader))
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	ozj := filepath.Join(dir, "wrapped.ozj")
	if err := os.WriteFile(ozj, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err = Load(ozj)
	if err != nil {
		t.Fatalf("ozj: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("expected 8x8, got %v", img.Bounds())
	}
	got := img.NRGBAAt(4, 4)
	if absDiff(got.R, want.R) > 12 || absDiff(got.G, want.G) > 12 || absDiff(got.B, want.B) > 12 {
		t.Errorf("expected about %v, got %v", want, got)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
