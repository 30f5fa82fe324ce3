package qrgen

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
	"github.com/g0083/QRreaders/internal/infrastructure/detector"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}

func TestEncodeGeometry(t *testing.T) {
	data, err := NewEncoder().Encode("hello", application.EncodeOptions{BoxSize: 2, Border: 1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}

	// Версия 1: 21 модуль + поле 1 с каждой стороны, по 2 пикселя на модуль
	if b := img.Bounds(); b.Dx() != 46 || b.Dy() != 46 {
		t.Fatalf("size = %v, want 46x46", b)
	}

	isBlack := func(x, y int) bool {
		return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 128
	}
	if isBlack(0, 0) || isBlack(1, 1) {
		t.Error("quiet zone is not white")
	}
	if !isBlack(2, 2) || !isBlack(3, 3) {
		t.Error("finder pattern corner is not black")
	}
}

func TestEncodeDecodes(t *testing.T) {
	tests := []string{
		"https://example.com",
		domain.WiFiPayload("home", "WPA", "secret"),
		domain.VCardPayload("Ivan", "+7 900", "ivan@example.com"),
		"Привет, мир",
	}

	enc := NewEncoder()
	det := detector.NewZXingDetector(nopLogger{})
	for _, text := range tests {
		img, err := enc.Image(text, application.DefaultEncodeOptions())
		if err != nil {
			t.Fatalf("Image(%q) error = %v", text, err)
		}
		res := det.Detect(domain.FrameFromImage(img))
		if !res.Found || res.Text != text {
			t.Errorf("round trip %q = %+v", text, res)
		}
	}
}

func TestEncodeTooLong(t *testing.T) {
	_, err := NewEncoder().Encode(strings.Repeat("x", 5000), application.DefaultEncodeOptions())
	if !errors.Is(err, domain.ErrEncoding) {
		t.Errorf("Encode() error = %v, want ErrEncoding", err)
	}

	var buf bytes.Buffer
	if err := NewEncoder().WriteTerminal(strings.Repeat("x", 5000), &buf); !errors.Is(err, domain.ErrEncoding) {
		t.Errorf("WriteTerminal() error = %v, want ErrEncoding", err)
	}
}

func TestWriteTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder().WriteTerminal("https://example.com", &buf); err != nil {
		t.Fatalf("WriteTerminal() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("WriteTerminal() wrote nothing")
	}
}
