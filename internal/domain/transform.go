package domain

import (
	"fmt"
	"strings"
)

// Op одна операция ориентации кадра
type Op int

const (
	Rotate90  Op = iota // Поворот на 90° по часовой
	Rotate180           // Поворот на 180°
	Rotate270           // Поворот на 270° по часовой
	MirrorH             // Зеркало по горизонтали (x -> W-1-x)
	MirrorV             // Зеркало по вертикали (y -> H-1-y)
)

var opNames = map[Op]string{
	Rotate90:  "rot90",
	Rotate180: "rot180",
	Rotate270: "rot270",
	MirrorH:   "flipx",
	MirrorV:   "flipy",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// swaps сообщает, меняет ли операция ширину и высоту местами
func (o Op) swaps() bool {
	return o == Rotate90 || o == Rotate270
}

// source возвращает координату входа для пикселя (x, y) выхода размером w x h
func (o Op) source(x, y, w, h int) (int, int) {
	switch o {
	case Rotate90:
		return y, w - 1 - x
	case Rotate180:
		return w - 1 - x, h - 1 - y
	case Rotate270:
		return h - 1 - y, x
	case MirrorH:
		return w - 1 - x, y
	case MirrorV:
		return x, h - 1 - y
	}
	return x, y
}

// Transform калибровка ориентации: операции применяются по порядку.
// Нулевое значение ничего не меняет.
type Transform struct {
	ops []Op
}

// NewTransform создает преобразование из последовательности операций
func NewTransform(ops ...Op) Transform {
	return Transform{ops: append([]Op(nil), ops...)}
}

// ParseTransform разбирает строку вида "rot90,flipx"
func ParseTransform(s string) (Transform, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return Transform{}, nil
	}

	var ops []Op
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		switch token {
		case "rot90", "cw":
			ops = append(ops, Rotate90)
		case "rot180":
			ops = append(ops, Rotate180)
		case "rot270", "ccw":
			ops = append(ops, Rotate270)
		case "flipx", "mirror-h":
			ops = append(ops, MirrorH)
		case "flipy", "mirror-v":
			ops = append(ops, MirrorV)
		default:
			return Transform{}, fmt.Errorf("неизвестная операция преобразования: %q", token)
		}
	}
	return Transform{ops: ops}, nil
}

// Ops возвращает копию списка операций
func (t Transform) Ops() []Op {
	return append([]Op(nil), t.ops...)
}

// IsIdentity сообщает, что преобразование пустое
func (t Transform) IsIdentity() bool {
	return len(t.ops) == 0
}

func (t Transform) String() string {
	if len(t.ops) == 0 {
		return "none"
	}
	names := make([]string, len(t.ops))
	for i, op := range t.ops {
		names[i] = op.String()
	}
	return strings.Join(names, ",")
}

// Size возвращает размер результата для входа w x h
func (t Transform) Size(w, h int) (int, int) {
	for _, op := range t.ops {
		if op.swaps() {
			w, h = h, w
		}
	}
	return w, h
}

// sizes возвращает размеры после каждой операции; sizes[0] - вход
func (t Transform) sizes(w, h int) [][2]int {
	out := make([][2]int, len(t.ops)+1)
	out[0] = [2]int{w, h}
	for i, op := range t.ops {
		if op.swaps() {
			w, h = h, w
		}
		out[i+1] = [2]int{w, h}
	}
	return out
}

// Source возвращает координату во входном кадре w x h для пикселя (x, y) результата
func (t Transform) Source(x, y, w, h int) (int, int) {
	return t.source(x, y, t.sizes(w, h))
}

func (t Transform) source(x, y int, sizes [][2]int) (int, int) {
	for i := len(t.ops) - 1; i >= 0; i-- {
		size := sizes[i+1]
		x, y = t.ops[i].source(x, y, size[0], size[1])
	}
	return x, y
}

// Apply возвращает новый кадр; исходный не изменяется
func (t Transform) Apply(f Frame) Frame {
	if t.IsIdentity() {
		return f
	}

	sizes := t.sizes(f.Width, f.Height)
	outW, outH := sizes[len(sizes)-1][0], sizes[len(sizes)-1][1]
	out := NewFrame(outW, outH, f.Layout)
	ch := f.Layout.Channels()

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := t.source(x, y, sizes)
			src := f.Offset(sx, sy)
			dst := out.Offset(x, y)
			copy(out.Pix[dst:dst+ch], f.Pix[src:src+ch])
		}
	}
	return out
}
