package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/g0083/QRreaders/internal/domain"
)

const (
	DefaultBoxSize = 10
	DefaultBorder  = 4

	// MaxBoxSize и MaxBorder ограничивают размер изображения
	MaxBoxSize = 50
	MaxBorder  = 16
)

// EncodeOptions параметры генерации: пикселей на модуль и ширина поля в модулях
type EncodeOptions struct {
	BoxSize int
	Border  int
}

// withDefaults подставляет значения по умолчанию для нулевых полей
func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.BoxSize <= 0 {
		o.BoxSize = DefaultBoxSize
	}
	if o.Border < 0 {
		o.Border = DefaultBorder
	}
	return o
}

// DefaultEncodeOptions возвращает параметры по умолчанию
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{BoxSize: DefaultBoxSize, Border: DefaultBorder}
}

// Generator сервис генерации QR-кодов, вызывается слоем UI напрямую
type Generator struct {
	encoder Encoder
	logger  Logger
}

// NewGenerator создает сервис генерации
func NewGenerator(encoder Encoder, logger Logger) *Generator {
	return &Generator{
		encoder: encoder,
		logger:  logger,
	}
}

// Generate возвращает PNG с QR-кодом. Ошибки оборачивают domain.ErrEncoding.
func (g *Generator) Generate(text string, opts EncodeOptions) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: пустой текст", domain.ErrEncoding)
	}

	opts = opts.withDefaults()
	if opts.BoxSize > MaxBoxSize {
		return nil, fmt.Errorf("%w: размер модуля %d больше %d", domain.ErrEncoding, opts.BoxSize, MaxBoxSize)
	}
	if opts.Border > MaxBorder {
		return nil, fmt.Errorf("%w: поле %d больше %d", domain.ErrEncoding, opts.Border, MaxBorder)
	}

	png, err := g.encoder.Encode(text, opts)
	if err != nil {
		g.logger.Error("Ошибка генерации QR (%d символов): %v", len(text), err)
		if !errors.Is(err, domain.ErrEncoding) {
			err = fmt.Errorf("%w: %v", domain.ErrEncoding, err)
		}
		return nil, err
	}

	g.logger.Debug("Сгенерирован QR: %d символов, %d байт PNG", len(text), len(png))
	return png, nil
}
