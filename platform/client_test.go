package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/login" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("Failed to decode credentials: %v", err)
		}
		if creds["login"] != "watcher" || creds["password"] != "s3cret" {
			t.Errorf("Wrong credentials forwarded: %v", creds)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	if err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if c.token != "tok-1" {
		t.Errorf("Expected token tok-1, got %q", c.token)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "wrong")
	if err := c.Authenticate(context.Background()); err == nil {
		t.Error("Expected an error on rejected credentials")
	}
}

func TestSequencesAutoLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/login":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
		case "/api/v1/sequences/unlabeled":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if got := r.URL.Query().Get("from_date"); got != "2026-08-22T00:00:00Z" {
				t.Errorf("Unexpected from_date: %q", got)
			}
			w.Write([]byte(`[
				{"id": 1, "camera_id": 10, "azimuth": 45.5, "started_at": "2026-08-22T08:00:00Z", "last_seen_at": "2026-08-22T08:03:00Z", "is_wildfire": null},
				{"id": 2, "camera_id": 11, "azimuth": 120, "started_at": "2026-08-22T09:00:00Z", "last_seen_at": "2026-08-22T09:01:00Z", "is_wildfire": true}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	since := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	seqs, err := c.Sequences(context.Background(), since)
	if err != nil {
		t.Fatalf("Sequences failed: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("Expected 2 sequences, got %d", len(seqs))
	}
	if seqs[0].ID != 1 || seqs[0].Azimuth != 45.5 {
		t.Errorf("First sequence misparsed: %+v", seqs[0])
	}
	if seqs[0].IsWildfire != nil {
		t.Errorf("Expected unlabeled sequence, got %v", *seqs[0].IsWildfire)
	}
	if seqs[1].IsWildfire == nil || !*seqs[1].IsWildfire {
		t.Error("Expected second sequence labeled wildfire")
	}
}

func TestExpiredTokenRetriedOnce(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/login":
			n := logins.Add(1)
			token := "tok-1"
			if n > 1 {
				token = "tok-2"
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": token})
		case "/api/v1/cameras":
			// The first token is treated as expired.
			if r.Header.Get("Authorization") != "Bearer tok-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[{"id": 10, "name": "serre-nord", "lat": 44.7, "lon": 4.3}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	cams, err := c.Cameras(context.Background())
	if err != nil {
		t.Fatalf("Cameras failed: %v", err)
	}
	if len(cams) != 1 || cams[0].Name != "serre-nord" {
		t.Errorf("Cameras misparsed: %+v", cams)
	}
	if got := logins.Load(); got != 2 {
		t.Errorf("Expected exactly 2 logins (initial + refresh), got %d", got)
	}
}

func TestLabelSequence(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/login" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
			return
		}
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	if err := c.LabelSequence(context.Background(), 42, true); err != nil {
		t.Fatalf("LabelSequence failed: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/v1/sequences/42/label" {
		t.Errorf("Unexpected request: %s %s", gotMethod, gotPath)
	}
	if !gotBody["is_wildfire"] {
		t.Errorf("Expected is_wildfire true in body, got %v", gotBody)
	}
}

func TestSequenceDetections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/login" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
			return
		}
		if r.URL.Path != "/api/v1/sequences/7/detections" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"id": 70, "sequence_id": 7, "camera_id": 10, "created_at": "2026-08-22T08:00:12Z", "bboxes": "[[0.25,0.25,0.5,0.5,0.9]]", "url": "https://img.example/70.jpg"}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	dets, err := c.SequenceDetections(context.Background(), 7)
	if err != nil {
		t.Fatalf("SequenceDetections failed: %v", err)
	}
	if len(dets) != 1 || dets[0].ID != 70 || dets[0].Bboxes == "" {
		t.Errorf("Detections misparsed: %+v", dets)
	}
}

func TestControlEndpoints(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]float64
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/login" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
			return
		}
		var body map[string]float64
		json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, body})
	}))
	defer server.Close()

	c := NewClient(server.URL, "watcher", "s3cret")
	ctx := context.Background()

	if err := c.MoveCameraToPose(ctx, 5, 3); err != nil {
		t.Fatalf("MoveCameraToPose failed: %v", err)
	}
	if err := c.ZoomCamera(ctx, 5, 12); err != nil {
		t.Fatalf("ZoomCamera failed: %v", err)
	}
	if err := c.StopCamera(ctx, 5); err != nil {
		t.Fatalf("StopCamera failed: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("Expected 3 control calls, got %d", len(calls))
	}
	if calls[0].path != "/api/v1/cameras/5/control/move" || calls[0].body["pose_id"] != 3 {
		t.Errorf("Move call wrong: %+v", calls[0])
	}
	if calls[1].path != "/api/v1/cameras/5/control/zoom" || calls[1].body["level"] != 12 {
		t.Errorf("Zoom call wrong: %+v", calls[1])
	}
	if calls[2].path != "/api/v1/cameras/5/control/stop" {
		t.Errorf("Stop call wrong: %+v", calls[2])
	}
}
