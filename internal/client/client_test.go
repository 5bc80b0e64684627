package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin_SetsSessionToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			if r.Method != http.MethodPost {
				t.Errorf("login used method %s", r.Method)
			}
			var payload LoginPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decoding login payload: %v", err)
			}
			if payload.Email != "operator@example.com" {
				t.Errorf("unexpected email %q", payload.Email)
			}
			writeJSON(w, LoginResponse{Token: "session-abc"})
		case "/api/cameras":
			if got := r.Header.Get("Authorization"); got != "Bearer session-abc" {
				t.Errorf("expected bearer token on follow-up request, got %q", got)
			}
			writeJSON(w, []models.Camera{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	api := New(ClientConfig{
		BaseURL:  ts.URL,
		Email:    "operator@example.com",
		Password: "pass",
	})

	token, err := api.Login()
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "session-abc" {
		t.Fatalf("token = %q", token)
	}
	if api.Session() != "session-abc" {
		t.Fatalf("session not retained on client")
	}

	if _, err := api.GetCameras(); err != nil {
		t.Fatalf("GetCameras after login: %v", err)
	}
}

func TestLogin_RejectedCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL, Email: "x@example.com", Password: "bad"})
	if _, err := api.Login(); err == nil {
		t.Fatal("expected login failure")
	}
}

func TestGetIncidents_FilterQueryParam(t *testing.T) {
	var gotResolved []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/incidents" {
			http.NotFound(w, r)
			return
		}
		if vals, ok := r.URL.Query()["resolved"]; ok {
			gotResolved = append(gotResolved, vals[0])
		} else {
			gotResolved = append(gotResolved, "<absent>")
		}
		writeJSON(w, []models.Incident{})
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL})

	for _, filter := range []ResolvedFilter{FilterUnresolved, FilterResolved, FilterAll} {
		if _, err := api.GetIncidents(filter); err != nil {
			t.Fatalf("GetIncidents(%v): %v", filter, err)
		}
	}

	want := []string{"false", "true", "<absent>"}
	for i, w := range want {
		if gotResolved[i] != w {
			t.Errorf("call %d sent resolved=%q, want %q", i, gotResolved[i], w)
		}
	}
}

func TestGetIncidents_ParsesEmbeddedCamera(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		incidents := []models.Incident{
			{
				ID:        12,
				CameraID:  3,
				Type:      "GUN_THREAT",
				Severity:  models.SeverityCritical,
				Timestamp: time.Date(2026, 8, 30, 16, 45, 0, 0, time.UTC),
				Camera:    &models.Camera{ID: 3, Name: "Main Entrance", Status: models.CameraActive},
			},
		}
		writeJSON(w, incidents)
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL})
	incidents, err := api.GetIncidents(FilterAll)
	if err != nil {
		t.Fatalf("GetIncidents: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("got %d incidents", len(incidents))
	}
	inc := incidents[0]
	if inc.Camera == nil || inc.Camera.Name != "Main Entrance" {
		t.Errorf("embedded camera not parsed: %+v", inc.Camera)
	}
	if !inc.Timestamp.Equal(time.Date(2026, 8, 30, 16, 45, 0, 0, time.UTC)) {
		t.Errorf("timestamp not parsed: %v", inc.Timestamp)
	}
}

func TestResolveIncident(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("resolve used method %s", r.Method)
		}
		if r.URL.Path != "/api/incidents/42/resolve" {
			t.Errorf("resolve hit path %s", r.URL.Path)
		}
		writeJSON(w, models.Incident{
			ID:       42,
			Resolved: true,
			Camera:   &models.Camera{ID: 1, Name: "Vault Security"},
		})
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL})
	inc, err := api.ResolveIncident(42)
	if err != nil {
		t.Fatalf("ResolveIncident: %v", err)
	}
	if !inc.Resolved {
		t.Error("returned incident not resolved")
	}
	if inc.Camera == nil || inc.Camera.Name != "Vault Security" {
		t.Errorf("embedded camera missing: %+v", inc.Camera)
	}
}

func TestResolveIncident_RemoteRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"incident not found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL})
	if _, err := api.ResolveIncident(999); err == nil {
		t.Fatal("expected error for remote rejection")
	}
}

func TestRealtimeURL(t *testing.T) {
	api := New(ClientConfig{BaseURL: "https://dashboard.example.com"})
	api.SetSession("tok")

	url, err := api.RealtimeURL(models.CollectionIncidents)
	if err != nil {
		t.Fatalf("RealtimeURL: %v", err)
	}
	if !strings.HasPrefix(url, "wss://dashboard.example.com/api/realtime?") {
		t.Errorf("unexpected url %q", url)
	}
	if !strings.Contains(url, "collection=incidents") || !strings.Contains(url, "token=tok") {
		t.Errorf("missing query parameters in %q", url)
	}

	api = New(ClientConfig{BaseURL: "http://localhost:3000"})
	url, err = api.RealtimeURL(models.CollectionCameras)
	if err != nil {
		t.Fatalf("RealtimeURL: %v", err)
	}
	if !strings.HasPrefix(url, "ws://localhost:3000/api/realtime?") {
		t.Errorf("http base should map to ws, got %q", url)
	}
}

func TestDownloadThumbnail_ResolvesRelativeLocator(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thumbnails/cam-3.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF}) // JPEG magic
	}))
	defer ts.Close()

	api := New(ClientConfig{BaseURL: ts.URL})
	data, err := api.DownloadThumbnail("/thumbnails/cam-3.jpg")
	if err != nil {
		t.Fatalf("DownloadThumbnail: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("got %d bytes", len(data))
	}

	if _, err := api.DownloadThumbnail(""); err == nil {
		t.Fatal("empty locator should error")
	}
}
