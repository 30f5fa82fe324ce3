// Package imagefile отдает неподвижное изображение как источник кадров.
package imagefile

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

// Load читает и декодирует файл изображения в кадр
func Load(path string) (domain.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("открытие файла изображения: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("декодирование изображения: %w", err)
	}
	return domain.FrameFromImage(img), nil
}

// Source отдает один и тот же кадр на каждом тике
type Source struct {
	path   string
	logger application.Logger
}

// NewSource создает источник для файла path
func NewSource(path string, logger application.Logger) *Source {
	return &Source{
		path:   path,
		logger: logger,
	}
}

// Open читает файл; ошибка чтения считается недоступностью устройства
func (s *Source) Open() (application.FrameHandle, error) {
	frame, err := Load(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
	}
	s.logger.Debug("Изображение %s: %dx%d", s.path, frame.Width, frame.Height)
	return &handle{frame: frame}, nil
}

// FrameSource возвращает источник для уже загруженного кадра
func FrameSource(frame domain.Frame) application.FrameSource {
	return staticSource{frame: frame}
}

type staticSource struct {
	frame domain.Frame
}

func (s staticSource) Open() (application.FrameHandle, error) {
	return &handle{frame: s.frame}, nil
}

type handle struct {
	frame    domain.Frame
	released bool
	mutex    sync.Mutex
}

func (h *handle) ReadFrame() (*domain.Frame, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.released {
		return nil, nil
	}
	frame := h.frame
	return &frame, nil
}

func (h *handle) Release() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.released = true
	return nil
}
