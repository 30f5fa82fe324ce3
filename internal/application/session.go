package application

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/g0083/QRreaders/internal/domain"
)

// ScanSession машина состояний сканирования: Idle -> Scanning -> Found -> Scanning.
// Устройство открыто только в состоянии Scanning. Таймер сессии не принадлежит,
// Tick вызывается планировщиком слоя UI.
type ScanSession struct {
	id        string
	source    FrameSource
	transform domain.Transform
	detector  Detector
	listener  Listener
	logger    Logger

	state  domain.ScanState
	handle FrameHandle
	result string
	frames int
	mutex  sync.Mutex
}

// NewScanSession создает сессию в состоянии Idle
func NewScanSession(source FrameSource, transform domain.Transform, detector Detector, listener Listener, logger Logger) *ScanSession {
	if listener == nil {
		listener = NopListener{}
	}
	return &ScanSession{
		id:        uuid.NewString(),
		source:    source,
		transform: transform,
		detector:  detector,
		listener:  listener,
		logger:    logger,
	}
}

// event откладывает вызов слушателя до снятия блокировки,
// чтобы слушатель мог обращаться к сессии
type event func(Listener)

func (s *ScanSession) dispatch(events []event) {
	for _, e := range events {
		e(s.listener)
	}
}

// ID возвращает идентификатор сессии
func (s *ScanSession) ID() string {
	return s.id
}

// State возвращает текущее состояние
func (s *ScanSession) State() domain.ScanState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Result возвращает последний найденный текст, если сессия в состоянии Found
func (s *ScanSession) Result() (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.result, s.state == domain.StateFound
}

// Start открывает источник и переводит сессию в Scanning
func (s *ScanSession) Start() error {
	s.mutex.Lock()
	if s.state == domain.StateScanning {
		s.mutex.Unlock()
		return nil
	}
	s.result = ""
	events, err := s.open()
	s.mutex.Unlock()

	s.dispatch(events)
	return err
}

// Rescan сбрасывает результат и снова открывает источник.
// При неудаче сессия остается в Idle.
func (s *ScanSession) Rescan() error {
	s.logger.Debug("[%s] повторное сканирование", s.id)
	return s.Start()
}

// Stop освобождает источник и переводит сессию в Idle из любого состояния
func (s *ScanSession) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.release()
	s.result = ""
	s.state = domain.StateIdle
}

// Close завершает сессию при выходе из режима сканирования
func (s *ScanSession) Close() error {
	s.Stop()
	return nil
}

// Tick выполняет один цикл захвата и распознавания
func (s *ScanSession) Tick() {
	s.mutex.Lock()
	events := s.tick()
	s.mutex.Unlock()

	s.dispatch(events)
}

func (s *ScanSession) tick() []event {
	if s.state != domain.StateScanning {
		return nil
	}

	frame, err := s.handle.ReadFrame()
	if err != nil {
		s.logger.Error("[%s] потеряно устройство: %v", s.id, err)
		s.release()
		s.state = domain.StateIdle
		if !errors.Is(err, domain.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
		}
		return []event{func(l Listener) { l.OnError(domain.KindDeviceUnavailable, err) }}
	}
	if frame == nil {
		return nil
	}

	s.frames++
	preview := s.transform.Apply(*frame)
	res := s.detector.Detect(preview)
	if !res.Found {
		return []event{func(l Listener) { l.OnPreviewFrame(preview) }}
	}

	s.logger.Info("[%s] QR-код найден на кадре %d", s.id, s.frames)
	s.release()
	s.state = domain.StateFound
	s.result = res.Text
	text := res.Text
	return []event{func(l Listener) { l.OnResult(text) }}
}

// open вызывается под блокировкой
func (s *ScanSession) open() ([]event, error) {
	handle, err := s.source.Open()
	if err != nil {
		s.state = domain.StateIdle
		if !errors.Is(err, domain.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrDeviceUnavailable, err)
		}
		s.logger.Error("[%s] ошибка открытия источника: %v", s.id, err)
		return []event{func(l Listener) { l.OnError(domain.KindDeviceUnavailable, err) }}, err
	}

	s.handle = handle
	s.frames = 0
	s.state = domain.StateScanning
	s.logger.Debug("[%s] сканирование начато", s.id)
	return nil, nil
}

// release вызывается под блокировкой; Release вызывается не более одного раза на открытие
func (s *ScanSession) release() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Release(); err != nil {
		s.logger.Error("[%s] ошибка освобождения источника: %v", s.id, err)
	}
	s.handle = nil
}

// NopListener слушатель, игнорирующий все события
type NopListener struct{}

func (NopListener) OnPreviewFrame(domain.Frame) {}

func (NopListener) OnResult(string) {}

func (NopListener) OnError(domain.ErrorKind, error) {}
