package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gnemet/pptxtext/internal/config"
	"github.com/gnemet/pptxtext/internal/extractor"
	"github.com/gnemet/pptxtext/internal/observer"
	"github.com/gnemet/pptxtext/internal/pptx/pptxtest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.Application.MaxUploadMB = 1
	s := &server{cfg: cfg, obs: observer.NewObserver(cfg, nil, nil, nil)}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func upload(t *testing.T, url string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "deck.pptx")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	resp, err := http.Post(url+"/extract", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestHandleExtract(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL, pptxtest.Bytes(t, pptxtest.TextBox(2, "Slide1"), pptxtest.TextBox(2, "Slide2")))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if body != "{\"text\": \"Slide1\\nSlide2\"}\n" {
		t.Errorf("Body = %q", body)
	}

	var result extractor.Result
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatal(err)
	}
	if result.Text != "Slide1\nSlide2" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestHandleExtractEscapesNonASCII(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL, pptxtest.Bytes(t, pptxtest.TextBox(2, "Árvíztűrő")))
	body := readBody(t, resp)
	if body != "{\"text\": \"\\u00c1rv\\u00edzt\\u0171r\\u0151\"}\n" {
		t.Errorf("Body = %q", body)
	}

	var result extractor.Result
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatal(err)
	}
	if result.Text != "Árvíztűrő" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestHandleExtractInvalid(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL, []byte("not a presentation"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", resp.StatusCode)
	}

	get, err := http.Get(ts.URL + "/extract")
	if err != nil {
		t.Fatal(err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", get.StatusCode)
	}
}

func TestHandleExtractionsWithoutDB(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/extractions")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", resp.StatusCode)
	}
}

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := readBody(t, resp); got != "{\"processing\":false}\n" {
		t.Errorf("Body = %q", got)
	}
}

type fakeWatcher struct {
	busy    bool
	started int
}

func (f *fakeWatcher) IsProcessing() bool { return f.busy }

func (f *fakeWatcher) TryReprocessAll() bool {
	if f.busy {
		return false
	}
	f.started++
	return true
}

func TestHandleReprocess(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		busy        bool
		wantStatus  int
		wantStarted int
	}{
		{"idle", http.MethodPost, false, http.StatusAccepted, 1},
		{"busy", http.MethodPost, true, http.StatusConflict, 0},
		{"wrong method", http.MethodGet, false, http.StatusMethodNotAllowed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &fakeWatcher{busy: tt.busy}
			s := &server{cfg: &config.Config{}, obs: fw}

			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, httptest.NewRequest(tt.method, "/reprocess", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if fw.started != tt.wantStarted {
				t.Errorf("Reprocess started %d times, want %d", fw.started, tt.wantStarted)
			}
		})
	}
}

func TestHandleStatusWhileBusy(t *testing.T) {
	s := &server{cfg: &config.Config{}, obs: &fakeWatcher{busy: true}}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if got := rec.Body.String(); got != "{\"processing\":true}\n" {
		t.Errorf("Body = %q", got)
	}
}
