package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leenscore/leenscore/internal/engine"
	"github.com/leenscore/leenscore/internal/model"
)

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(model.StorageConfig{})

	if client.Configured() {
		t.Error("Expected client without base URL to report not configured")
	}

	_, err := client.Upload(context.Background(), []byte("x"), "image/jpeg")
	engErr, ok := err.(*engine.Error)
	if !ok || engErr.Code != engine.CodeNotConfigured {
		t.Fatalf("Expected NOT_CONFIGURED, got %v", err)
	}
}

func TestClient_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(model.StorageConfig{
		BaseURL: server.URL,
		APIKey:  "store-key",
		Bucket:  "shots",
	})

	result, err := client.Upload(context.Background(), []byte("image-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/object/shots/uploads/") {
		t.Errorf("Unexpected upload path: %s", gotPath)
	}
	if !strings.HasSuffix(gotPath, ".png") {
		t.Errorf("Expected .png extension for PNG upload, got %s", gotPath)
	}
	if gotAuth != "Bearer store-key" {
		t.Errorf("Unexpected auth header: %q", gotAuth)
	}
	if gotType != "image/png" {
		t.Errorf("Unexpected content type: %q", gotType)
	}
	if string(gotBody) != "image-bytes" {
		t.Errorf("Unexpected body: %q", gotBody)
	}

	if !strings.Contains(result.PublicURL, "/object/public/shots/") {
		t.Errorf("Unexpected public URL: %s", result.PublicURL)
	}
	if !strings.HasSuffix(result.PublicURL, result.Path) {
		t.Errorf("Public URL %s does not end with path %s", result.PublicURL, result.Path)
	}
}

func TestClient_UploadPathsAreUnique(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(model.StorageConfig{BaseURL: server.URL})

	first, err := client.Upload(context.Background(), []byte("a"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	second, err := client.Upload(context.Background(), []byte("b"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if first.Path == second.Path {
		t.Errorf("Expected unique paths, both were %s", first.Path)
	}
}

func TestClient_UploadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(model.StorageConfig{BaseURL: server.URL})

	_, err := client.Upload(context.Background(), []byte("x"), "image/jpeg")
	engErr, ok := err.(*engine.Error)
	if !ok || engErr.Code != "HTTP_403" {
		t.Fatalf("Expected HTTP_403, got %v", err)
	}
}

func TestClient_Delete(t *testing.T) {
	var gotMethod string
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(status)
	}))
	defer server.Close()

	client := NewClient(model.StorageConfig{BaseURL: server.URL})

	gone, err := client.Delete(context.Background(), "uploads/x.jpg")
	if err != nil || !gone {
		t.Errorf("Expected successful delete, got gone=%v err=%v", gone, err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", gotMethod)
	}

	// A missing object still counts as deleted
	status = http.StatusNotFound
	gone, err = client.Delete(context.Background(), "uploads/missing.jpg")
	if err != nil || !gone {
		t.Errorf("Expected 404 to count as deleted, got gone=%v err=%v", gone, err)
	}

	status = http.StatusForbidden
	gone, err = client.Delete(context.Background(), "uploads/x.jpg")
	if err != nil || gone {
		t.Errorf("Expected 403 to report not deleted, got gone=%v err=%v", gone, err)
	}
}
