package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
)

func rendererConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.Renderer.Endpoint = endpoint
	cfg.Renderer.Timeout = 2 * time.Second
	return cfg
}

func TestHTTPRendererRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data Data
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			t.Errorf("request body is not the data contract: %v", err)
		}
		if data.SchoolName != "Green Valley High School" {
			t.Errorf("school_name = %q", data.SchoolName)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 rendered"))
	}))
	defer srv.Close()

	r := NewHTTPRenderer(rendererConfig(srv.URL))
	pdf, err := r.Render(context.Background(), Data{SchoolName: "Green Valley High School"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(pdf) != "%PDF-1.4 rendered" {
		t.Errorf("Render() = %q", pdf)
	}
}

func TestHTTPRendererErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	tests := []struct {
		name     string
		endpoint string
	}{
		{"unconfigured endpoint", ""},
		{"renderer error status", failing.URL},
		{"empty artifact", empty.URL},
		{"unreachable renderer", "http://127.0.0.1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHTTPRenderer(rendererConfig(tt.endpoint))
			if _, err := r.Render(context.Background(), Data{}); err == nil {
				t.Error("Render() = nil error, want failure")
			}
		})
	}
}
