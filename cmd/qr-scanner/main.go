package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/config"
	"github.com/g0083/QRreaders/internal/infrastructure/camera"
	"github.com/g0083/QRreaders/internal/infrastructure/detector"
	"github.com/g0083/QRreaders/internal/infrastructure/logger"
	"github.com/g0083/QRreaders/internal/infrastructure/qrgen"
	"github.com/g0083/QRreaders/internal/presentation/cli"
)

func main() {
	// Значения по умолчанию берутся из окружения и .env
	config.LoadDotEnv()
	defaults, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	// Флаги перекрывают окружение
	cfg, err := cli.ParseFlags(os.Args[1:], defaults)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Ошибка: %v", err)
	}

	// Инициализируем логгер
	stdLogger := logger.NewStdLogger(cfg.Debug)

	// Инициализируем инфраструктурные компоненты
	cameraManager := camera.NewMediaDevicesManager(cfg.VideoConfig(), stdLogger)
	encoder := qrgen.NewEncoder()

	cliApp := cli.NewCLI(cli.Deps{
		Camera:        cameraManager,
		LiveDetector:  detector.NewZXingDetector(stdLogger),
		ImageDetector: detector.NewImageDetector(stdLogger),
		Terminal:      encoder,
		Generator:     application.NewGenerator(encoder, stdLogger),
	}, stdLogger)
	cliApp.SetConfig(cfg)

	// Запускаем CLI
	if err := cliApp.Run(); err != nil {
		if errors.Is(err, cli.ErrNotFound) {
			os.Exit(1)
		}
		log.Fatalf("Ошибка: %v", err)
	}
}
