package camera

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pion/mediadevices"
	_ "github.com/pion/mediadevices/pkg/driver/camera" // Регистрируем драйвер камеры
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

// MediaDevicesManager источник кадров с камеры на основе библиотеки mediadevices
type MediaDevicesManager struct {
	config domain.VideoConfig
	logger application.Logger
}

// NewMediaDevicesManager создает новый менеджер медиаустройств
func NewMediaDevicesManager(config domain.VideoConfig, logger application.Logger) *MediaDevicesManager {
	return &MediaDevicesManager{
		config: config,
		logger: logger,
	}
}

// ListDevices возвращает список доступных устройств захвата
func (m *MediaDevicesManager) ListDevices() ([]domain.VideoDevice, error) {
	devices := mediadevices.EnumerateDevices()
	result := make([]domain.VideoDevice, 0, len(devices))

	for _, device := range devices {
		result = append(result, domain.VideoDevice{
			ID:    device.DeviceID,
			Label: device.Label,
			Kind:  kindName(device.Kind),
		})
	}

	return result, nil
}

func kindName(kind mediadevices.MediaDeviceType) string {
	switch kind {
	case mediadevices.VideoInput:
		return "video"
	case mediadevices.AudioInput:
		return "audio"
	case mediadevices.AudioOutput:
		return "audio-output"
	}
	return "unknown"
}

// PreferredDevice выбирает заднюю камеру по названию, иначе первую видеокамеру.
// Пустая строка означает, что видеокамер нет.
func PreferredDevice(devices []domain.VideoDevice) string {
	first := ""
	for _, d := range devices {
		if d.Kind != "video" {
			continue
		}
		label := strings.ToLower(d.Label)
		if strings.Contains(label, "back") || strings.Contains(label, "environment") {
			return d.ID
		}
		if first == "" {
			first = d.ID
		}
	}
	return first
}

// Open открывает камеру и запускает чтение кадров в фоне
func (m *MediaDevicesManager) Open() (application.FrameHandle, error) {
	deviceID := m.config.DeviceID
	if deviceID == "" {
		devices, _ := m.ListDevices()
		deviceID = PreferredDevice(devices)
		if deviceID == "" {
			return nil, fmt.Errorf("%w: видеоустройства не найдены", domain.ErrDeviceUnavailable)
		}
	}

	m.logger.Info("Открытие камеры %s: %dx%d, %d fps",
		deviceID, m.config.Width, m.config.Height, m.config.FrameRate)

	constraints := mediadevices.MediaStreamConstraints{
		Video: func(c *mediadevices.MediaTrackConstraints) {
			// Задаем предпочтительные параметры, но не строгие
			if m.config.Width > 0 && m.config.Height > 0 {
				c.Width = prop.Int(m.config.Width)
				c.Height = prop.Int(m.config.Height)
			}
			if m.config.FrameRate > 0 {
				c.FrameRate = prop.Float(m.config.FrameRate)
			}
			c.DeviceID = prop.String(deviceID)
		},
	}

	mediaStream, err := mediadevices.GetUserMedia(constraints)
	if err != nil {
		m.logger.Error("Ошибка с исходными ограничениями: %v", err)

		// Пробуем без форматных ограничений
		m.logger.Info("Пробуем с минимальными ограничениями...")
		constraints = mediadevices.MediaStreamConstraints{
			Video: func(c *mediadevices.MediaTrackConstraints) {
				c.DeviceID = prop.String(deviceID)
			},
		}

		mediaStream, err = mediadevices.GetUserMedia(constraints)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
		}
	}

	videoTracks := mediaStream.GetVideoTracks()
	if len(videoTracks) == 0 {
		return nil, fmt.Errorf("%w: видеотрек не обнаружен", domain.ErrDeviceUnavailable)
	}

	track, ok := videoTracks[0].(*mediadevices.VideoTrack)
	if !ok {
		videoTracks[0].Close()
		return nil, fmt.Errorf("%w: неожиданный тип трека %T", domain.ErrDeviceUnavailable, videoTracks[0])
	}

	m.logger.Info("Используется камера: %s", track.ID())

	handle := newTrackHandle(track, track.NewReader(false), m.logger)
	go handle.pump()
	return handle, nil
}

// trackHandle хранит только последний кадр: ReadFrame не блокируется
type trackHandle struct {
	track  io.Closer
	reader video.Reader
	logger application.Logger

	latest *domain.Frame
	err    error
	mutex  sync.Mutex

	done chan struct{}
	once sync.Once
}

func newTrackHandle(track io.Closer, reader video.Reader, logger application.Logger) *trackHandle {
	return &trackHandle{
		track:  track,
		reader: reader,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// pump читает кадры, пока трек не закрыт
func (h *trackHandle) pump() {
	for {
		select {
		case <-h.done:
			return
		default:
		}

		img, release, err := h.reader.Read()
		if err != nil {
			select {
			case <-h.done:
				// Трек закрыт через Release
			default:
				h.logger.Error("Ошибка чтения кадра: %v", err)
				h.mutex.Lock()
				h.err = err
				h.mutex.Unlock()
			}
			return
		}

		// Копируем данные, чтобы избежать проблем с перезаписью буфера
		frame := domain.FrameFromImage(img)
		if release != nil {
			release()
		}

		h.mutex.Lock()
		h.latest = &frame
		h.mutex.Unlock()
	}
}

// ReadFrame забирает последний кадр; (nil, nil), если нового кадра нет
func (h *trackHandle) ReadFrame() (*domain.Frame, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, h.err)
	}
	frame := h.latest
	h.latest = nil
	return frame, nil
}

// Release закрывает трек; повторные вызовы ничего не делают
func (h *trackHandle) Release() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		err = h.track.Close()
		h.mutex.Lock()
		h.latest = nil
		h.mutex.Unlock()
	})
	return err
}
