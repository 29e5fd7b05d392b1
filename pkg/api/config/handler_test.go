package config_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"deal_evaluation/pkg/api/config"
	"deal_evaluation/pkg/core/agent"
	"deal_evaluation/pkg/core/logger"
)

func newHandler() *config.Handler {
	mgr := agent.NewManager(agent.Config{ActiveProvider: "gemini"})
	return config.NewHandler(mgr, logger.Nop())
}

func TestHandleConfig(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	h.HandleConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp config.ProvidersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if resp.ActiveProvider != "gemini" {
		t.Errorf("expected gemini active, got %s", resp.ActiveProvider)
	}
	if len(resp.Available) == 0 {
		t.Errorf("expected available providers")
	}
}

func TestHandleSwitch(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider": "deepseek"}`))
	rec := httptest.NewRecorder()
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp config.ProvidersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if resp.ActiveProvider != "deepseek" {
		t.Errorf("switch should report the new provider, got %s", resp.ActiveProvider)
	}
}

func TestHandleSwitch_UnknownProvider(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider": "oracle"}`))
	rec := httptest.NewRecorder()
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown provider should 400, got %d", rec.Code)
	}
}
