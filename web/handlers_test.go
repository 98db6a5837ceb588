package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"auraclick/config"
	"auraclick/platform"
	"auraclick/storage"
)

// fakeController drives the handlers without a live listener or input
// backend.
type fakeController struct {
	cfg      *config.Config
	profiles *config.ProfileManager
	windows  []platform.Window
	listErr  error
	targets  []platform.Window

	running   bool
	paused    bool
	startErr  error
	activated string
	reloaded  bool
}

func (c *fakeController) Config() *config.Config { return c.cfg }

func (c *fakeController) UpdateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *fakeController) ReloadConfig() error {
	c.reloaded = true
	return nil
}

func (c *fakeController) StartListener() error {
	if c.startErr != nil {
		return c.startErr
	}
	c.running = true
	return nil
}

func (c *fakeController) StopListener() error {
	c.running = false
	return nil
}

func (c *fakeController) SetPaused(paused bool) { c.paused = paused }

func (c *fakeController) Status() Status {
	return Status{Running: c.running, Paused: c.paused}
}

func (c *fakeController) Profiles() *config.ProfileManager { return c.profiles }

func (c *fakeController) ActivateProfile(name string) error {
	cfg, err := c.profiles.Load(name)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.activated = name
	return nil
}

func (c *fakeController) ListWindows() ([]platform.Window, error) {
	return c.windows, c.listErr
}

func (c *fakeController) Targets() []platform.Window { return c.targets }

func (c *fakeController) SetTargets(windows []platform.Window) { c.targets = windows }

func testServer(t *testing.T) (*Server, *fakeController) {
	t.Helper()

	root := t.TempDir()
	activePath := filepath.Join(root, "config.toml")
	profiles, err := config.NewProfileManager(filepath.Join(root, "profiles"), activePath)
	if err != nil {
		t.Fatalf("profile manager: %v", err)
	}
	db, err := storage.Open(root)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg, err := config.Load(activePath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctrl := &fakeController{cfg: cfg, profiles: profiles}
	return NewServer(ctrl, db, "127.0.0.1:0", nil), ctrl
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleConfigGet(t *testing.T) {
	srv, ctrl := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got config.Config
	decodeBody(t, rec, &got)
	if len(got.Hotkeys) != len(ctrl.cfg.Hotkeys) {
		t.Errorf("returned %d hotkeys, want %d", len(got.Hotkeys), len(ctrl.cfg.Hotkeys))
	}
}

func TestHandleConfigPut(t *testing.T) {
	srv, ctrl := testServer(t)

	body := `{
		"char_settings": {"char1": "U8"},
		"hotkeys": {"f2": [{"x": 5, "y": 6, "button": "RIGHT", "repeat": 2, "char": "char1"}]}
	}`
	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got := ctrl.cfg.Hotkeys["f2"]; len(got) != 1 || got[0].Repeat != 2 {
		t.Errorf("config not replaced: %+v", ctrl.cfg.Hotkeys)
	}
}

func TestHandleConfigPutInvalid(t *testing.T) {
	srv, _ := testServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "zero repeat", body: `{"char_settings": {}, "hotkeys": {"f1": [{"x": 1, "y": 1, "button": "LEFT", "repeat": 0}]}}`},
		{name: "bad button", body: `{"char_settings": {}, "hotkeys": {"f1": [{"x": 1, "y": 1, "button": "MIDDLE", "repeat": 1}]}}`},
		{name: "unknown hotkey", body: `{"char_settings": {}, "hotkeys": {"f12": [{"x": 1, "y": 1, "button": "LEFT", "repeat": 1}]}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.handleConfig(rec, httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleConfigReload(t *testing.T) {
	srv, ctrl := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleConfig(rec, httptest.NewRequest(http.MethodPost, "/api/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ctrl.reloaded {
		t.Error("reload was not invoked")
	}
}

func TestHandleListenerActions(t *testing.T) {
	srv, ctrl := testServer(t)

	post := func(action string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		body := fmt.Sprintf(`{"action": %q}`, action)
		srv.handleListener(rec, httptest.NewRequest(http.MethodPost, "/api/listener", strings.NewReader(body)))
		return rec
	}

	if rec := post("start"); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}
	if !ctrl.running {
		t.Error("listener not running after start")
	}

	if rec := post("pause"); rec.Code != http.StatusOK {
		t.Fatalf("pause status = %d, want 200", rec.Code)
	}
	if !ctrl.paused {
		t.Error("listener not paused after pause")
	}

	rec := post("resume")
	if rec.Code != http.StatusOK {
		t.Fatalf("resume status = %d, want 200", rec.Code)
	}
	var status Status
	decodeBody(t, rec, &status)
	if !status.Running || status.Paused {
		t.Errorf("status = %+v, want running and not paused", status)
	}

	if rec := post("stop"); rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d, want 200", rec.Code)
	}
	if ctrl.running {
		t.Error("listener still running after stop")
	}

	if rec := post("selfdestruct"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", rec.Code)
	}
}

func TestHandleListenerStartConflict(t *testing.T) {
	srv, ctrl := testServer(t)
	ctrl.startErr = fmt.Errorf("hotkey listener already running")

	rec := httptest.NewRecorder()
	srv.handleListener(rec, httptest.NewRequest(http.MethodPost, "/api/listener", strings.NewReader(`{"action": "start"}`)))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleProfilesLifecycle(t *testing.T) {
	srv, ctrl := testServer(t)

	// Snapshot the active config under a new name.
	rec := httptest.NewRecorder()
	srv.handleProfile(rec, httptest.NewRequest(http.MethodPost, "/api/profiles/farming?save=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("save profile status = %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	srv.handleProfiles(rec, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list profiles status = %d", rec.Code)
	}
	var listed struct {
		Profiles []string `json:"profiles"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Profiles) != 2 {
		t.Errorf("profiles = %v, want default and farming", listed.Profiles)
	}

	rec = httptest.NewRecorder()
	srv.handleProfile(rec, httptest.NewRequest(http.MethodPost, "/api/profiles/farming", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("activate profile status = %d: %s", rec.Code, rec.Body)
	}
	if ctrl.activated != "farming" {
		t.Errorf("activated = %q, want farming", ctrl.activated)
	}

	rec = httptest.NewRecorder()
	srv.handleProfile(rec, httptest.NewRequest(http.MethodDelete, "/api/profiles/farming", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete profile status = %d: %s", rec.Code, rec.Body)
	}

	// The default profile is protected.
	rec = httptest.NewRecorder()
	srv.handleProfile(rec, httptest.NewRequest(http.MethodDelete, "/api/profiles/default", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete default status = %d, want 400", rec.Code)
	}
}

func TestHandleHistoryPagination(t *testing.T) {
	srv, _ := testServer(t)

	for i := 0; i < 3; i++ {
		e := &storage.Execution{Hotkey: "f1", ActionCount: 1, DurationMs: 10, Success: true}
		if err := srv.db.RecordExecution(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	srv.handleHistory(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=2&offset=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got struct {
		Executions []storage.Execution `json:"executions"`
		Total      int                 `json:"total"`
		Limit      int                 `json:"limit"`
		Offset     int                 `json:"offset"`
	}
	decodeBody(t, rec, &got)
	if got.Total != 3 || got.Limit != 2 || got.Offset != 1 {
		t.Errorf("pagination = total %d limit %d offset %d, want 3/2/1", got.Total, got.Limit, got.Offset)
	}
	if len(got.Executions) != 2 {
		t.Errorf("got %d executions, want 2", len(got.Executions))
	}
}

func TestHandleDeleteHistory(t *testing.T) {
	srv, _ := testServer(t)

	e := &storage.Execution{Hotkey: "f1", ActionCount: 1, DurationMs: 10, Success: true}
	if err := srv.db.RecordExecution(e); err != nil {
		t.Fatalf("record: %v", err)
	}

	rec := httptest.NewRecorder()
	target := fmt.Sprintf("/api/history/%d", e.ID)
	srv.handleDeleteHistory(rec, httptest.NewRequest(http.MethodDelete, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	count, err := srv.db.GetExecutionCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d after delete, want 0", count)
	}

	rec = httptest.NewRecorder()
	srv.handleDeleteHistory(rec, httptest.NewRequest(http.MethodDelete, "/api/history/nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad ID status = %d, want 400", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	srv, _ := testServer(t)

	for _, success := range []bool{true, true, false} {
		e := &storage.Execution{Hotkey: "f1", ActionCount: 1, DurationMs: 10, Success: success}
		if !success {
			e.ErrorMessage = "failsafe corner triggered"
		}
		if err := srv.db.RecordExecution(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats?days=30", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got struct {
		Overall      storage.OverallStats  `json:"overall"`
		Usage        []storage.HotkeyUsage `json:"usage"`
		RecentErrors []storage.Execution   `json:"recentErrors"`
	}
	decodeBody(t, rec, &got)
	if got.Overall.TotalExecutions != 3 || got.Overall.FailureCount != 1 {
		t.Errorf("overall = %+v, want 3 executions and 1 failure", got.Overall)
	}
	if len(got.Usage) != 1 || got.Usage[0].Count != 3 {
		t.Errorf("usage = %+v, want f1 x3", got.Usage)
	}
	if len(got.RecentErrors) != 1 || got.RecentErrors[0].ErrorMessage != "failsafe corner triggered" {
		t.Errorf("recentErrors = %+v, want the one failed execution", got.RecentErrors)
	}
}

func TestHandleWindows(t *testing.T) {
	srv, ctrl := testServer(t)
	ctrl.windows = []platform.Window{{Handle: 42, Title: "Game"}}

	rec := httptest.NewRecorder()
	srv.handleWindows(rec, httptest.NewRequest(http.MethodGet, "/api/windows", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		Supported bool              `json:"supported"`
		Windows   []platform.Window `json:"windows"`
	}
	decodeBody(t, rec, &got)
	if !got.Supported || len(got.Windows) != 1 {
		t.Errorf("response = %+v, want supported with one window", got)
	}

	rec = httptest.NewRecorder()
	body := `{"targets": [{"handle": 42, "title": "Game"}]}`
	srv.handleWindows(rec, httptest.NewRequest(http.MethodPut, "/api/windows", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200", rec.Code)
	}
	if len(ctrl.targets) != 1 || ctrl.targets[0].Handle != 42 {
		t.Errorf("targets = %+v, want the selected window", ctrl.targets)
	}
}

func TestHandleWindowsUnsupported(t *testing.T) {
	srv, ctrl := testServer(t)
	ctrl.listErr = platform.ErrUnsupported

	rec := httptest.NewRecorder()
	srv.handleWindows(rec, httptest.NewRequest(http.MethodGet, "/api/windows", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got struct {
		Supported bool `json:"supported"`
	}
	decodeBody(t, rec, &got)
	if got.Supported {
		t.Error("expected supported = false")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	cases := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		target  string
	}{
		{name: "config delete", handler: srv.handleConfig, method: http.MethodDelete, target: "/api/config"},
		{name: "listener get", handler: srv.handleListener, method: http.MethodGet, target: "/api/listener"},
		{name: "status post", handler: srv.handleStatus, method: http.MethodPost, target: "/api/status"},
		{name: "history post", handler: srv.handleHistory, method: http.MethodPost, target: "/api/history"},
		{name: "stats post", handler: srv.handleStats, method: http.MethodPost, target: "/api/stats"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.handler(rec, httptest.NewRequest(tc.method, tc.target, nil))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want 405", rec.Code)
			}
		})
	}
}
