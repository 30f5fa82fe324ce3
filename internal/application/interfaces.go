package application

import (
	"github.com/g0083/QRreaders/internal/domain"
)

// FrameSource источник кадров (камера или файл)
type FrameSource interface {
	// Open захватывает устройство. Ошибка оборачивает domain.ErrDeviceUnavailable.
	Open() (FrameHandle, error)
}

// FrameHandle открытое устройство, принадлежит одной сессии
type FrameHandle interface {
	// ReadFrame возвращает следующий кадр без долгой блокировки.
	// (nil, nil) означает, что кадра пока нет, нужно повторить на следующем тике.
	// Ошибка означает потерю устройства.
	ReadFrame() (*domain.Frame, error)

	// Release освобождает устройство, повторный вызов безопасен
	Release() error
}

// DeviceLister перечисляет устройства захвата
type DeviceLister interface {
	ListDevices() ([]domain.VideoDevice, error)
}

// Detector ищет и декодирует QR-код в кадре
type Detector interface {
	Detect(frame domain.Frame) domain.DecodedResult
}

// Encoder кодирует текст в PNG с QR-кодом
type Encoder interface {
	Encode(text string, opts EncodeOptions) ([]byte, error)
}

// Listener получает события сессии (слой UI)
type Listener interface {
	OnPreviewFrame(frame domain.Frame)
	OnResult(text string)
	OnError(kind domain.ErrorKind, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}
