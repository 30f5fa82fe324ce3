package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
)

type Config struct {
	// Camera
	DeviceID  string
	Width     int
	Height    int
	FrameRate int

	// Scanning
	TickInterval time.Duration
	Transform    string // Калибровка ориентации, например "rot90,flipx"

	// Generation
	BoxSize int
	Border  int

	// Web preview
	WebAddr string

	Debug bool
}

// LoadDotEnv подгружает .env, если он есть. Отсутствие файла не ошибка.
func LoadDotEnv(paths ...string) {
	godotenv.Load(paths...)
}

func Load() (*Config, error) {
	var env envParser
	cfg := &Config{
		DeviceID:     getEnv("QR_DEVICE", ""),
		Width:        env.getInt("QR_WIDTH", 1280),
		Height:       env.getInt("QR_HEIGHT", 720),
		FrameRate:    env.getInt("QR_FPS", 30),
		TickInterval: time.Duration(env.getInt("QR_TICK_MS", 100)) * time.Millisecond,
		Transform:    getEnv("QR_TRANSFORM", "none"),
		BoxSize:      env.getInt("QR_BOX_SIZE", 10),
		Border:       env.getInt("QR_BORDER", 4),
		WebAddr:      getEnv("QR_WEB_ADDR", "localhost:8080"),
		Debug:        env.getBool("QR_DEBUG", false),
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения после загрузки и после разбора флагов
func (c *Config) Validate() error {
	if c.TickInterval < 20*time.Millisecond || c.TickInterval > time.Second {
		return fmt.Errorf("QR_TICK_MS must be between 20 and 1000, got %d", c.TickInterval.Milliseconds())
	}
	if _, err := domain.ParseTransform(c.Transform); err != nil {
		return fmt.Errorf("QR_TRANSFORM: %w", err)
	}
	if c.BoxSize <= 0 || c.BoxSize > application.MaxBoxSize {
		return fmt.Errorf("QR_BOX_SIZE must be between 1 and %d, got %d", application.MaxBoxSize, c.BoxSize)
	}
	if c.Border < 0 || c.Border > application.MaxBorder {
		return fmt.Errorf("QR_BORDER must be between 0 and %d, got %d", application.MaxBorder, c.Border)
	}
	return nil
}

// OrientationTransform возвращает разобранную калибровку
func (c *Config) OrientationTransform() domain.Transform {
	t, _ := domain.ParseTransform(c.Transform)
	return t
}

func (c *Config) VideoConfig() domain.VideoConfig {
	return domain.VideoConfig{
		Width:     c.Width,
		Height:    c.Height,
		FrameRate: c.FrameRate,
		DeviceID:  c.DeviceID,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser запоминает первую ошибку разбора
type envParser struct {
	err error
}

func (p *envParser) getInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return n
}

func (p *envParser) getBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return b
}

func (p *envParser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: invalid value %q", key, value)
	}
}
