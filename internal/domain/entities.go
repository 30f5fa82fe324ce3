package domain

import (
	"image"
	"image/draw"
)

// PixelLayout описывает раскладку каналов в кадре
type PixelLayout int

const (
	LayoutRGBA PixelLayout = iota // 4 канала, R G B A
	LayoutGray                    // 1 канал, яркость
)

// Channels возвращает число байт на пиксель
func (l PixelLayout) Channels() int {
	if l == LayoutGray {
		return 1
	}
	return 4
}

// Frame представляет один кадр. После создания не изменяется.
type Frame struct {
	Width  int         // Ширина в пикселях
	Height int         // Высота в пикселях
	Layout PixelLayout // Раскладка каналов
	Pix    []byte      // Данные, строки подряд без выравнивания
}

// NewFrame создает пустой кадр заданного размера
func NewFrame(width, height int, layout PixelLayout) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Layout: layout,
		Pix:    make([]byte, width*height*layout.Channels()),
	}
}

// Stride возвращает длину строки в байтах
func (f Frame) Stride() int {
	return f.Width * f.Layout.Channels()
}

// Offset возвращает смещение пикселя (x, y) в Pix
func (f Frame) Offset(x, y int) int {
	return y*f.Stride() + x*f.Layout.Channels()
}

// Gray возвращает одноканальную копию кадра (BT.601)
func (f Frame) Gray() Frame {
	if f.Layout == LayoutGray {
		return f
	}

	out := NewFrame(f.Width, f.Height, LayoutGray)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+4, j+1 {
		r := uint32(f.Pix[i])
		g := uint32(f.Pix[i+1])
		b := uint32(f.Pix[i+2])
		// Те же коэффициенты, что и у color.GrayModel
		out.Pix[j] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
	}
	return out
}

// Image возвращает представление кадра как image.Image без копирования
func (f Frame) Image() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Layout == LayoutGray {
		return &image.Gray{Pix: f.Pix, Stride: f.Stride(), Rect: rect}
	}
	return &image.RGBA{Pix: f.Pix, Stride: f.Stride(), Rect: rect}
}

// FrameFromImage копирует изображение в кадр; серое остается серым, остальное приводится к RGBA
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()

	if g, ok := img.(*image.Gray); ok {
		out := NewFrame(b.Dx(), b.Dy(), LayoutGray)
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride():(y+1)*out.Stride()], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Layout: LayoutRGBA,
		Pix:    rgba.Pix,
	}
}

// DecodedResult результат работы детектора
type DecodedResult struct {
	Text  string // Декодированный текст, пустой если Found == false
	Found bool   // Код найден и декодирован
}

// NotFound результат "код не найден"
var NotFound = DecodedResult{}

// ScanState состояние сессии сканирования
type ScanState int

const (
	StateIdle ScanState = iota
	StateScanning
	StateFound
)

func (s ScanState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateFound:
		return "found"
	}
	return "unknown"
}

// VideoDevice представляет устройство захвата видео
type VideoDevice struct {
	ID    string // Уникальный идентификатор устройства
	Label string // Человекочитаемое имя устройства
	Kind  string // Тип устройства
}

// VideoConfig содержит конфигурацию видеопотока
type VideoConfig struct {
	Width     int    // Ширина видео в пикселях
	Height    int    // Высота видео в пикселях
	FrameRate int    // Частота кадров
	DeviceID  string // ID устройства для захвата
}
