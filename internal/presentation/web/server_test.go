package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/g0083/QRreaders/internal/application"
	"github.com/g0083/QRreaders/internal/domain"
	"github.com/g0083/QRreaders/internal/infrastructure/detector"
	"github.com/g0083/QRreaders/internal/infrastructure/imagefile"
	"github.com/g0083/QRreaders/internal/infrastructure/qrgen"
	"github.com/g0083/QRreaders/internal/infrastructure/streaming"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}

type brokenSource struct{}

func (brokenSource) Open() (application.FrameHandle, error) {
	return nil, errors.New("no camera")
}

type testEnv struct {
	server  *httptest.Server
	session *application.ScanSession
	hub     *streaming.PreviewHub
}

func newTestEnv(t *testing.T, source application.FrameSource) *testEnv {
	t.Helper()
	hub := streaming.NewPreviewHub(nopLogger{}, false)
	notifier := NewNotifier(hub, nopLogger{})
	session := application.NewScanSession(source, domain.Transform{}, detector.NewZXingDetector(nopLogger{}), notifier, nopLogger{})
	generator := application.NewGenerator(qrgen.NewEncoder(), nopLogger{})

	srv := NewServer(session, generator, hub, notifier, application.DefaultEncodeOptions(), nopLogger{})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return &testEnv{server: ts, session: session, hub: hub}
}

func codeSource(t *testing.T, text string) application.FrameSource {
	t.Helper()
	img, err := qrgen.NewEncoder().Image(text, application.EncodeOptions{BoxSize: 4, Border: 4})
	if err != nil {
		t.Fatal(err)
	}
	return imagefile.FrameSource(domain.FrameFromImage(img))
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeState(t *testing.T, resp *http.Response) stateResponse {
	t.Helper()
	var st stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestScanFlow(t *testing.T) {
	env := newTestEnv(t, codeSource(t, "https://example.com"))

	resp := post(t, env.server.URL+"/api/start", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	if st := decodeState(t, resp); st.State != "scanning" {
		t.Fatalf("state = %q, want scanning", st.State)
	}

	env.session.Tick()

	resp, err := http.Get(env.server.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	st := decodeState(t, resp)
	if st.State != "found" || st.Result != "https://example.com" {
		t.Errorf("state = %+v", st)
	}
	if st.Session == "" || st.Session != env.session.ID() {
		t.Errorf("session = %q, want %q", st.Session, env.session.ID())
	}

	resp = post(t, env.server.URL+"/api/rescan", "")
	if st := decodeState(t, resp); st.State != "scanning" || st.Result != "" {
		t.Errorf("after rescan state = %+v", st)
	}

	resp = post(t, env.server.URL+"/api/stop", "")
	if st := decodeState(t, resp); st.State != "idle" {
		t.Errorf("after stop state = %+v", st)
	}
}

func TestStartWithoutCamera(t *testing.T) {
	env := newTestEnv(t, brokenSource{})

	resp := post(t, env.server.URL+"/api/start", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["kind"] != "DeviceUnavailable" || body["state"] != "idle" {
		t.Errorf("body = %v", body)
	}
}

func TestResultEventOverWebSocket(t *testing.T) {
	env := newTestEnv(t, codeSource(t, "WIFI:S:home;T:WPA;P:secret;;"))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(env.server.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := env.session.Start(); err != nil {
		t.Fatal(err)
	}
	env.session.Tick()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		if mt != websocket.TextMessage {
			continue
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if ev.Type != "result" {
			continue
		}
		if ev.Payload == nil || ev.Payload.Kind != domain.PayloadWiFi || ev.Payload.Fields["ssid"] != "home" {
			t.Errorf("event = %+v", ev)
		}
		return
	}
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, brokenSource{})

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		contentType string
	}{
		{"ok", `{"text":"hello"}`, http.StatusOK, "image/png"},
		{"custom size", `{"text":"hello","boxSize":2,"border":0}`, http.StatusOK, "image/png"},
		{"empty text", `{"text":""}`, http.StatusBadRequest, "application/json"},
		{"too long", `{"text":"` + strings.Repeat("x", 5000) + `"}`, http.StatusBadRequest, "application/json"},
		{"box size too large", `{"text":"hi","boxSize":20000}`, http.StatusBadRequest, "application/json"},
		{"border too large", `{"text":"hi","boxSize":1,"border":1000000}`, http.StatusBadRequest, "application/json"},
		{"bad json", `{`, http.StatusBadRequest, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, env.server.URL+"/api/generate", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t, brokenSource{})

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "QR-сканер") {
		t.Error("index page does not contain title")
	}
}
