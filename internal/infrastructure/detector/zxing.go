// Package detector распознает QR-коды в кадрах с помощью gozxing.
//
// Кадр всегда переводится в оттенки серого здесь же, вызывающему коду
// не нужно заботиться о раскладке каналов.
package detector

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"golang.org/x/image/draw"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

// Strategy предварительная обработка кадра перед распознаванием
type Strategy string

const (
	StrategyNormal   Strategy = "normal"
	StrategyContrast Strategy = "contrast"
	StrategyInvert   Strategy = "invert"
	StrategyScale2x  Strategy = "scale2x"
	StrategyBinarize Strategy = "binarize"
)

var (
	// LiveStrategies используются на каждом тике камеры
	LiveStrategies = []Strategy{StrategyNormal}

	// ImageStrategies перебираются для неподвижных изображений
	ImageStrategies = []Strategy{
		StrategyNormal,
		StrategyContrast,
		StrategyInvert,
		StrategyScale2x,
		StrategyBinarize,
	}
)

// ZXingDetector реализация application.Detector
type ZXingDetector struct {
	strategies []Strategy
	tryHarder  bool
	logger     application.Logger
}

// NewZXingDetector создает детектор для потока с камеры
func NewZXingDetector(logger application.Logger) *ZXingDetector {
	return &ZXingDetector{
		strategies: LiveStrategies,
		logger:     logger,
	}
}

// NewImageDetector создает детектор для файлов: все стратегии и режим TRY_HARDER
func NewImageDetector(logger application.Logger) *ZXingDetector {
	return &ZXingDetector{
		strategies: ImageStrategies,
		tryHarder:  true,
		logger:     logger,
	}
}

// Detect перебирает стратегии до первого успешного распознавания
func (d *ZXingDetector) Detect(frame domain.Frame) domain.DecodedResult {
	if frame.Width == 0 || frame.Height == 0 {
		return domain.NotFound
	}

	gray := frame.Gray()
	for _, strategy := range d.strategies {
		text, ok := d.decode(prepare(gray, strategy))
		if ok {
			if strategy != StrategyNormal {
				d.logger.Debug("QR распознан со стратегией %s", strategy)
			}
			return domain.DecodedResult{Text: text, Found: true}
		}
	}
	return domain.NotFound
}

func (d *ZXingDetector) decode(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		d.logger.Debug("Ошибка создания битовой карты: %v", err)
		return "", false
	}

	var hints map[gozxing.DecodeHintType]interface{}
	if d.tryHarder {
		hints = map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		}
	}

	// Отсутствие кода, ошибки контрольной суммы и формата означают "не найдено"
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", false
	}
	return result.GetText(), true
}

// prepare возвращает серое изображение после обработки стратегией
func prepare(gray domain.Frame, strategy Strategy) image.Image {
	switch strategy {
	case StrategyContrast:
		return mapPixels(gray, func(v byte) byte {
			return clamp((int(v)-128)*2 + 128)
		})
	case StrategyInvert:
		return mapPixels(gray, func(v byte) byte { return 255 - v })
	case StrategyBinarize:
		return mapPixels(gray, func(v byte) byte {
			if v > 128 {
				return 255
			}
			return 0
		})
	case StrategyScale2x:
		src := gray.Image()
		dst := image.NewGray(image.Rect(0, 0, gray.Width*2, gray.Height*2))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return dst
	}
	return gray.Image()
}

func mapPixels(gray domain.Frame, fn func(byte) byte) image.Image {
	out := domain.NewFrame(gray.Width, gray.Height, domain.LayoutGray)
	for i, v := range gray.Pix {
		out.Pix[i] = fn(v)
	}
	return out.Image()
}

func clamp(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return byte(v)
}
