package domain

import (
	"testing"
)

// numbered возвращает одноканальный кадр, где каждый пиксель хранит свой индекс
func numbered(w, h int) Frame {
	f := NewFrame(w, h, LayoutGray)
	for i := range f.Pix {
		f.Pix[i] = byte(i)
	}
	return f
}

func TestTransformSize(t *testing.T) {
	tests := []struct {
		name  string
		ops   []Op
		wantW int
		wantH int
	}{
		{"identity", nil, 4, 3},
		{"rot90", []Op{Rotate90}, 3, 4},
		{"rot180", []Op{Rotate180}, 4, 3},
		{"rot270", []Op{Rotate270}, 3, 4},
		{"rot90 twice", []Op{Rotate90, Rotate90}, 4, 3},
		{"mirror", []Op{MirrorH, MirrorV}, 4, 3},
		{"rot90 mirror", []Op{Rotate90, MirrorH}, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := NewTransform(tt.ops...).Size(4, 3)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			out := NewTransform(tt.ops...).Apply(numbered(4, 3))
			if out.Width != tt.wantW || out.Height != tt.wantH {
				t.Errorf("Apply() = %dx%d, want %dx%d", out.Width, out.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRotate90ThenMirror(t *testing.T) {
	// 3x2:
	// 0 1 2
	// 3 4 5
	in := numbered(3, 2)
	tr := NewTransform(Rotate90, MirrorH)
	out := tr.Apply(in)

	if out.Width != 2 || out.Height != 3 {
		t.Fatalf("size = %dx%d, want 2x3", out.Width, out.Height)
	}

	// rot90 по часовой:   mirror:
	// 3 0                 0 3
	// 4 1                 1 4
	// 5 2                 2 5
	want := []byte{0, 3, 1, 4, 2, 5}
	for i := range want {
		if out.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", out.Pix, want)
		}
	}

	// Каждый пиксель результата совпадает с пикселем, на который указывает Source
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			sx, sy := tr.Source(x, y, in.Width, in.Height)
			if got, want := out.Pix[out.Offset(x, y)], in.Pix[in.Offset(sx, sy)]; got != want {
				t.Errorf("pixel (%d,%d) = %d, source (%d,%d) = %d", x, y, got, sx, sy, want)
			}
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	in := numbered(5, 3)
	tests := []struct {
		name    string
		forward []Op
		inverse []Op
	}{
		{"rot90", []Op{Rotate90}, []Op{Rotate270}},
		{"rot180", []Op{Rotate180}, []Op{Rotate180}},
		{"mirror h", []Op{MirrorH}, []Op{MirrorH}},
		{"mirror v", []Op{MirrorV}, []Op{MirrorV}},
		{"rot90 mirror", []Op{Rotate90, MirrorH}, []Op{MirrorH, Rotate270}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewTransform(tt.inverse...).Apply(NewTransform(tt.forward...).Apply(in))
			if out.Width != in.Width || out.Height != in.Height {
				t.Fatalf("size = %dx%d, want %dx%d", out.Width, out.Height, in.Width, in.Height)
			}
			for i := range in.Pix {
				if out.Pix[i] != in.Pix[i] {
					t.Fatalf("Pix = %v, want %v", out.Pix, in.Pix)
				}
			}
		})
	}
}

func TestTransformRGBA(t *testing.T) {
	in := NewFrame(2, 1, LayoutRGBA)
	copy(in.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	out := NewTransform(Rotate90).Apply(in)
	if out.Width != 1 || out.Height != 2 {
		t.Fatalf("size = %dx%d, want 1x2", out.Width, out.Height)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if out.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", out.Pix, want)
		}
	}
	if in.Pix[0] != 1 {
		t.Error("Apply изменил исходный кадр")
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "none", false},
		{"none", "none", false},
		{"rot90,flipx", "rot90,flipx", false},
		{" CW , mirror-v ", "rot90,flipy", false},
		{"rot270,rot180", "rot270,rot180", false},
		{"rot45", "", true},
	}

	for _, tt := range tests {
		tr, err := ParseTransform(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTransform(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && tr.String() != tt.want {
			t.Errorf("ParseTransform(%q) = %q, want %q", tt.in, tr.String(), tt.want)
		}
	}
}

func TestTransformOpsCopy(t *testing.T) {
	tr := NewTransform(Rotate90, MirrorH)
	ops := tr.Ops()
	if len(ops) != 2 || ops[0] != Rotate90 || ops[1] != MirrorH {
		t.Fatalf("Ops() = %v", ops)
	}

	ops[0] = Rotate180
	if got := tr.String(); got != "rot90,flipx" {
		t.Errorf("после изменения копии String() = %q", got)
	}
	if len(Transform{}.Ops()) != 0 {
		t.Error("Ops() нулевого преобразования не пуст")
	}
}
