package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/config"
	"github.com/g0083/QRreaders/internal/domain"
	"github.com/g0083/QRreaders/internal/infrastructure/imagefile"
	"github.com/g0083/QRreaders/internal/infrastructure/streaming"
	"github.com/g0083/QRreaders/internal/presentation/web"
)

// ErrNotFound QR-код на изображении не найден
var ErrNotFound = errors.New("QR-код не найден")

// Camera камера: источник кадров и список устройств
type Camera interface {
	application.FrameSource
	application.DeviceLister
}

// TerminalEncoder печатает QR-код в терминал
type TerminalEncoder interface {
	WriteTerminal(text string, w io.Writer) error
}

// Deps зависимости, собранные в main
type Deps struct {
	Camera        Camera
	LiveDetector  application.Detector
	ImageDetector application.Detector
	Terminal      TerminalEncoder
	Generator     *application.Generator
}

// CLI представляет CLI интерфейс приложения
type CLI struct {
	deps   Deps
	logger application.Logger
	config *Config
	out    io.Writer
}

// Config представляет конфигурацию CLI
type Config struct {
	*config.Config

	ListDevices bool
	Continuous  bool
	Web         bool
	ImagePath   string

	Generate   string
	OutPath    string
	WiFiSSID   string
	WiFiType   string
	WiFiPass   string
	VCardName  string
	VCardTel   string
	VCardEmail string
}

// NewCLI создает новый CLI интерфейс
func NewCLI(deps Deps, logger application.Logger) *CLI {
	return &CLI{
		deps:   deps,
		logger: logger,
		out:    os.Stdout,
	}
}

// SetConfig устанавливает конфигурацию напрямую
func (c *CLI) SetConfig(config *Config) {
	c.config = config
}

// SetOutput меняет поток вывода результатов
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// ParseFlags парсит аргументы командной строки поверх значений из окружения
func ParseFlags(args []string, defaults *config.Config) (*Config, error) {
	cfg := &Config{Config: defaults}
	fs := flag.NewFlagSet("qr-scanner", flag.ContinueOnError)

	fs.StringVar(&cfg.DeviceID, "device", defaults.DeviceID, "ID устройства камеры для использования")
	fs.IntVar(&cfg.Width, "width", defaults.Width, "ширина видео")
	fs.IntVar(&cfg.Height, "height", defaults.Height, "высота видео")
	fs.IntVar(&cfg.FrameRate, "fps", defaults.FrameRate, "частота кадров")
	fs.DurationVar(&cfg.TickInterval, "tick", defaults.TickInterval, "интервал опроса камеры")
	fs.StringVar(&cfg.Transform, "transform", defaults.Transform, "калибровка ориентации, например rot90,flipx")
	fs.IntVar(&cfg.BoxSize, "box-size", defaults.BoxSize, "пикселей на модуль QR-кода")
	fs.IntVar(&cfg.Border, "border", defaults.Border, "ширина поля в модулях")
	fs.StringVar(&cfg.WebAddr, "addr", defaults.WebAddr, "адрес веб-интерфейса")
	fs.BoolVar(&cfg.Debug, "debug", defaults.Debug, "включить отладочные сообщения")

	fs.BoolVar(&cfg.ListDevices, "list-devices", false, "показать список доступных камер и выйти")
	fs.BoolVar(&cfg.Continuous, "continuous", false, "продолжать сканирование после результата")
	fs.BoolVar(&cfg.Web, "web", false, "запустить веб-интерфейс с предпросмотром")
	fs.StringVar(&cfg.ImagePath, "image", "", "распознать QR-код на изображении")

	fs.StringVar(&cfg.Generate, "generate", "", "создать QR-код из текста")
	fs.StringVar(&cfg.OutPath, "out", "", "сохранить созданный QR-код в PNG")
	fs.StringVar(&cfg.WiFiSSID, "wifi-ssid", "", "создать QR-код Wi-Fi для сети")
	fs.StringVar(&cfg.WiFiType, "wifi-type", "WPA", "тип защиты Wi-Fi (WPA, WEP, nopass)")
	fs.StringVar(&cfg.WiFiPass, "wifi-pass", "", "пароль Wi-Fi")
	fs.StringVar(&cfg.VCardName, "vcard-name", "", "создать QR-код визитки")
	fs.StringVar(&cfg.VCardTel, "vcard-tel", "", "телефон для визитки")
	fs.StringVar(&cfg.VCardEmail, "vcard-email", "", "email для визитки")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// payload возвращает текст для генерации или пустую строку
func (c *Config) payload() string {
	switch {
	case c.WiFiSSID != "":
		return domain.WiFiPayload(c.WiFiSSID, c.WiFiType, c.WiFiPass)
	case c.VCardName != "":
		return domain.VCardPayload(c.VCardName, c.VCardTel, c.VCardEmail)
	}
	return c.Generate
}

// Run запускает CLI
func (c *CLI) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.RunContext(ctx)
}

// RunContext выбирает режим по флагам
func (c *CLI) RunContext(ctx context.Context) error {
	switch {
	case c.config.ListDevices:
		return c.listDevices()
	case c.config.payload() != "":
		return c.generate(c.config.payload())
	case c.config.ImagePath != "":
		return c.scanImage(c.config.ImagePath)
	case c.config.Web:
		return c.serveWeb(ctx)
	}
	return c.scanLive(ctx)
}

// listDevices выводит список доступных устройств
func (c *CLI) listDevices() error {
	devices, err := c.deps.Camera.ListDevices()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Доступные устройства:")
	for i, device := range devices {
		fmt.Fprintf(c.out, "[%d] %s (%s) id=%s\n", i, device.Label, device.Kind, device.ID)
	}
	return nil
}

func (c *CLI) generate(text string) error {
	if err := c.deps.Terminal.WriteTerminal(text, c.out); err != nil {
		return err
	}
	if c.config.OutPath == "" {
		return nil
	}

	png, err := c.deps.Generator.Generate(text, application.EncodeOptions{
		BoxSize: c.config.BoxSize,
		Border:  c.config.Border,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.config.OutPath, png, 0o644); err != nil {
		return fmt.Errorf("сохранение %s: %w", c.config.OutPath, err)
	}
	fmt.Fprintf(c.out, "QR-код сохранен: %s\n", c.config.OutPath)
	return nil
}

// scanImage проводит один тик сессии по неподвижному изображению
func (c *CLI) scanImage(path string) error {
	term := newTerminalListener(c.out, c.logger)
	source := imagefile.NewSource(path, c.logger)
	session := application.NewScanSession(source, domain.Transform{}, c.deps.ImageDetector, term, c.logger)
	defer session.Close()

	if err := session.Start(); err != nil {
		return err
	}
	session.Tick()

	if _, ok := session.Result(); !ok {
		fmt.Fprintln(c.out, "QR-код не найден. Попробуйте более четкое изображение или обрежьте его с полями.")
		return ErrNotFound
	}
	return nil
}

func (c *CLI) scanLive(ctx context.Context) error {
	term := newTerminalListener(c.out, c.logger)
	session := application.NewScanSession(c.deps.Camera, c.config.OrientationTransform(), c.deps.LiveDetector, term, c.logger)
	defer session.Close()

	if err := session.Start(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Сканирование... (Ctrl+C для выхода)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ticker := application.NewTicker(session.Tick, c.config.TickInterval, c.logger)
	go ticker.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Прерывание получено, закрытие...")
			return nil
		case err := <-term.errors:
			return err
		case <-term.results:
			if !c.config.Continuous {
				return nil
			}
			// Пауза, чтобы тот же код не считался сразу повторно
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			if err := session.Rescan(); err != nil {
				return err
			}
		}
	}
}

func (c *CLI) serveWeb(ctx context.Context) error {
	hub := streaming.NewPreviewHub(c.logger, c.config.Debug)
	notifier := web.NewNotifier(hub, c.logger)
	session := application.NewScanSession(c.deps.Camera, c.config.OrientationTransform(), c.deps.LiveDetector, notifier, c.logger)
	defer session.Close()

	// Камера включается сразу, как в мобильной версии; при ошибке можно повторить из интерфейса
	if err := session.Start(); err != nil {
		c.logger.Error("Камера не запущена: %v", err)
	}

	defaults := application.EncodeOptions{BoxSize: c.config.BoxSize, Border: c.config.Border}
	server := web.NewServer(session, c.deps.Generator, hub, notifier, defaults, c.logger)
	ticker := application.NewTicker(session.Tick, c.config.TickInterval, c.logger)
	return server.Run(ctx, c.config.WebAddr, ticker)
}
