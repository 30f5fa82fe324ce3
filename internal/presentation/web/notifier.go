package web

import (
	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
	"github.com/g0083/QRreaders/internal/infrastructure/streaming"
)

// Event сообщение для браузера
type Event struct {
	Type    string          `json:"type"` // result, error, state
	Text    string          `json:"text,omitempty"`
	Payload *domain.Payload `json:"payload,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Message string          `json:"message,omitempty"`
	State   string          `json:"state,omitempty"`
}

// Notifier передает события сессии в хаб предпросмотра
type Notifier struct {
	hub    *streaming.PreviewHub
	logger application.Logger
}

// NewNotifier создает слушателя сессии для веб-интерфейса
func NewNotifier(hub *streaming.PreviewHub, logger application.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		logger: logger,
	}
}

func (n *Notifier) OnPreviewFrame(frame domain.Frame) {
	if err := n.hub.SendFrame(frame); err != nil {
		n.logger.Error("Ошибка отправки кадра: %v", err)
	}
}

func (n *Notifier) OnResult(text string) {
	payload := domain.ClassifyPayload(text)
	n.send(Event{Type: "result", Text: text, Payload: &payload})
}

func (n *Notifier) OnError(kind domain.ErrorKind, err error) {
	n.send(Event{Type: "error", Kind: kind.String(), Message: err.Error()})
}

// OnState сообщает о смене состояния по команде пользователя
func (n *Notifier) OnState(state domain.ScanState) {
	n.send(Event{Type: "state", State: state.String()})
}

func (n *Notifier) send(e Event) {
	if err := n.hub.SendEvent(e); err != nil {
		n.logger.Error("Ошибка отправки события %s: %v", e.Type, err)
	}
}
