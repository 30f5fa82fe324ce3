package domain

import (
	"image"
	"image/color"
	"testing"
)

func TestFrameGray(t *testing.T) {
	f := NewFrame(3, 1, LayoutRGBA)
	copy(f.Pix, []byte{
		255, 255, 255, 255,
		0, 0, 0, 255,
		255, 0, 0, 255,
	})

	g := f.Gray()
	if g.Layout != LayoutGray || len(g.Pix) != 3 {
		t.Fatalf("Gray() layout = %v, len = %d", g.Layout, len(g.Pix))
	}
	want := []byte{255, 0, color.GrayModel.Convert(color.RGBA{255, 0, 0, 255}).(color.Gray).Y}
	for i := range want {
		if g.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = %d, want %d", i, g.Pix[i], want[i])
		}
	}

	if again := g.Gray(); &again.Pix[0] != &g.Pix[0] {
		t.Error("Gray() на сером кадре должен возвращать тот же кадр")
	}
}

func TestFrameFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.Set(10, 10, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(11, 10, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	f := FrameFromImage(src)
	if f.Width != 2 || f.Height != 1 || f.Layout != LayoutRGBA {
		t.Fatalf("frame = %dx%d layout %v", f.Width, f.Height, f.Layout)
	}
	want := []byte{10, 20, 30, 255, 40, 50, 60, 255}
	for i := range want {
		if f.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", f.Pix, want)
		}
	}

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Pix = []byte{1, 2, 3, 4}
	g := FrameFromImage(gray)
	if g.Layout != LayoutGray || g.Pix[3] != 4 {
		t.Errorf("gray frame = %+v", g)
	}
	if img, ok := g.Image().(*image.Gray); !ok || img.GrayAt(1, 1).Y != 4 {
		t.Errorf("Image() = %T", g.Image())
	}
}

func TestScanStateString(t *testing.T) {
	tests := map[ScanState]string{
		StateIdle:     "idle",
		StateScanning: "scanning",
		StateFound:    "found",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
