//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestReadiness(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var h healthResponse
	decodeInto(t, resp, &h)
	if h.Status != "ok" {
		t.Errorf("expected status ok, got %s", h.Status)
	}
}

func TestLiveness(t *testing.T) {
	resp := doGet(t, "/livez")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
