package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

// terminalListener печатает результаты сканирования в терминал
type terminalListener struct {
	out     io.Writer
	logger  application.Logger
	frames  int
	results chan string
	errors  chan error
}

func newTerminalListener(out io.Writer, logger application.Logger) *terminalListener {
	return &terminalListener{
		out:     out,
		logger:  logger,
		results: make(chan string, 1),
		errors:  make(chan error, 1),
	}
}

func (l *terminalListener) OnPreviewFrame(frame domain.Frame) {
	l.frames++
	if l.frames%30 == 0 {
		l.logger.Debug("Обработано кадров без кода: %d (%dx%d)", l.frames, frame.Width, frame.Height)
	}
}

func (l *terminalListener) OnResult(text string) {
	payload := domain.ClassifyPayload(text)

	fmt.Fprintf(l.out, "Результат (%s):\n%s\n", payload.Kind, text)
	keys := make([]string, 0, len(payload.Fields))
	for k := range payload.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(l.out, "  %s: %s\n", k, payload.Fields[k])
	}

	select {
	case l.results <- text:
	default:
	}
}

func (l *terminalListener) OnError(kind domain.ErrorKind, err error) {
	fmt.Fprintf(l.out, "Ошибка (%s): %v\n", kind, err)
	select {
	case l.errors <- err:
	default:
	}
}
