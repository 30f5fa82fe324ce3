package qrgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/mdp/qrterminal/v3"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

// RecoveryLevel уровень коррекции ошибок, не настраивается
const RecoveryLevel = qrcode.Medium

// Encoder реализация application.Encoder на основе go-qrcode
type Encoder struct{}

// NewEncoder создает кодировщик
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode рисует QR-код: BoxSize пикселей на модуль, Border модулей поля
func (e *Encoder) Encode(text string, opts application.EncodeOptions) ([]byte, error) {
	img, err := e.Image(text, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// Image возвращает черно-белое изображение QR-кода
func (e *Encoder) Image(text string, opts application.EncodeOptions) (image.Image, error) {
	if opts.BoxSize <= 0 {
		opts.BoxSize = application.DefaultBoxSize
	}
	if opts.Border < 0 {
		opts.Border = application.DefaultBorder
	}

	q, err := qrcode.New(text, RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	q.DisableBorder = true
	modules := q.Bitmap()

	n := len(modules)
	size := (n + 2*opts.Border) * opts.BoxSize
	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, size, size), palette)

	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + opts.Border) * opts.BoxSize
			y0 := (y + opts.Border) * opts.BoxSize
			for dy := 0; dy < opts.BoxSize; dy++ {
				offset := img.PixOffset(x0, y0+dy)
				for dx := 0; dx < opts.BoxSize; dx++ {
					img.Pix[offset+dx] = 1
				}
			}
		}
	}
	return img, nil
}

// WriteTerminal печатает QR-код символами полублоков
func (e *Encoder) WriteTerminal(text string, w io.Writer) error {
	// Проверяем емкость заранее: qrterminal не возвращает ошибок
	if _, err := qrcode.New(text, RecoveryLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEncoding, err)
	}
	qrterminal.GenerateWithConfig(text, qrterminal.Config{
		Level:          qrterminal.M,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
		QuietZone:      1,
	})
	return nil
}
