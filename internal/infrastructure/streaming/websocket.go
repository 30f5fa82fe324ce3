package streaming

import (
	"bytes"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/image/draw"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

const (
	writeTimeout    = 2 * time.Second
	previewMaxWidth = 640
	jpegQuality     = 70

	// sendBuffer очередь сообщений одного клиента
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем все подключения
	},
}

type message struct {
	messageType int
	data        []byte
}

// client соединение с отдельной очередью отправки.
// Писать в conn может только writePump.
type client struct {
	conn *websocket.Conn
	send chan message
}

// writePump отправляет сообщения из очереди, пока она не закрыта
func (c *client) writePump(logger application.Logger) {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(msg.messageType, msg.data); err != nil {
			logger.Error("Ошибка отправки клиенту %s: %v", c.conn.RemoteAddr(), err)
			return
		}
	}

	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout),
	)
}

// PreviewHub рассылает кадры предпросмотра (JPEG, бинарные сообщения)
// и события (JSON, текстовые сообщения) всем подключенным клиентам.
// Отправка не блокируется: кадры для медленного клиента отбрасываются,
// клиент с переполненной очередью событий отключается.
type PreviewHub struct {
	clients      map[*client]struct{}
	logger       application.Logger
	mutex        sync.Mutex
	frameCounter int
	dropped      int
	startTime    time.Time
	debugMode    bool
}

// NewPreviewHub создает хаб предпросмотра
func NewPreviewHub(logger application.Logger, debugMode bool) *PreviewHub {
	return &PreviewHub{
		clients:   make(map[*client]struct{}),
		logger:    logger,
		startTime: time.Now(),
		debugMode: debugMode,
	}
}

// ServeHTTP обновляет соединение до WebSocket и держит его до отключения клиента
func (h *PreviewHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Ошибка при апгрейде до WebSocket: %v", err)
		return
	}

	clientAddr := conn.RemoteAddr().String()
	c := &client{conn: conn, send: make(chan message, sendBuffer)}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	h.logger.Info("Клиент подключен: %s", clientAddr)

	go c.writePump(h.logger)

	// Входящие сообщения не используются, читаем до закрытия
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	conn.Close()
	h.logger.Info("Клиент отключен: %s", clientAddr)
}

// Clients возвращает число подключенных клиентов
func (h *PreviewHub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// SendFrame кодирует кадр в JPEG и ставит в очередь всем клиентам
func (h *PreviewHub) SendFrame(frame domain.Frame) error {
	if h.Clients() == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, downscale(frame.Image(), previewMaxWidth), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	msg := message{messageType: websocket.BinaryMessage, data: buf.Bytes()}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}

	h.frameCounter++
	if h.debugMode && h.frameCounter%30 == 0 {
		elapsed := time.Since(h.startTime).Seconds()
		fps := float64(h.frameCounter) / elapsed
		h.logger.Debug("Отправлено кадров: %d, отброшено: %d, FPS: %.2f, размер последнего кадра: %d байт",
			h.frameCounter, h.dropped, fps, buf.Len())
	}
	return nil
}

// SendEvent сериализует событие в JSON и ставит в очередь всем клиентам
func (h *PreviewHub) SendEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	msg := message{messageType: websocket.TextMessage, data: data}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Error("Очередь клиента переполнена, отключение")
			h.closeClient(c)
		}
	}
	return nil
}

// Close закрывает очереди; writePump отправляет сообщение о закрытии и закрывает соединение
func (h *PreviewHub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		h.closeClient(c)
	}
}

func (h *PreviewHub) remove(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.closeClient(c)
}

// closeClient вызывается под блокировкой хаба
func (h *PreviewHub) closeClient(c *client) {
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// downscale уменьшает изображение до ширины maxWidth с сохранением пропорций
func downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
