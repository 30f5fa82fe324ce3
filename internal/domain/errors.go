package domain

import "errors"

var (
	// ErrDeviceUnavailable камера не может быть открыта или пропала во время работы
	ErrDeviceUnavailable = errors.New("камера недоступна")

	// ErrEncoding текст не может быть закодирован в QR-код
	ErrEncoding = errors.New("ошибка кодирования QR")
)

// ErrorKind тип ошибки, передаваемый слою UI
type ErrorKind int

const (
	KindDeviceUnavailable ErrorKind = iota
	KindTransientReadMiss
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindDeviceUnavailable:
		return "DeviceUnavailable"
	case KindTransientReadMiss:
		return "TransientReadMiss"
	case KindEncoding:
		return "EncodingError"
	}
	return "Unknown"
}

// KindOf сопоставляет ошибку с ее типом
func KindOf(err error) ErrorKind {
	if errors.Is(err, ErrEncoding) {
		return KindEncoding
	}
	return KindDeviceUnavailable
}
