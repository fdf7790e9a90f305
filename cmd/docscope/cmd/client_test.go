package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/docscope/internal/models"
)

func TestAPIClient_search(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "docker" {
			t.Errorf("query = %q", req.Query)
		}
		_ = json.NewEncoder(w).Encode(&models.SearchResponse{Query: "docker", TotalCount: 1})
	}))
	defer ts.Close()

	resp, err := newAPIClient(ts.URL).Search(&models.SearchRequest{Query: "docker"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalCount != 1 {
		t.Errorf("TotalCount = %d", resp.TotalCount)
	}
}

func TestAPIClient_parseErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": "unknown field: author", "position": 7, "token": "author",
		})
	}))
	defer ts.Close()

	_, err := newAPIClient(ts.URL).Search(&models.SearchRequest{Query: "author:x"})
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want apiError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Position != 7 || apiErr.Token != "author" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIClient_scanConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "scan already in progress"})
	}))
	defer ts.Close()

	_, err := newAPIClient(ts.URL).Scan(true)
	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("err = %v", err)
	}
}

func TestAPIClient_suggest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("prefix"); got != "doc" {
			t.Errorf("prefix = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"prefix": "doc", "terms": []string{"docker", "docs"},
		})
	}))
	defer ts.Close()

	terms, err := newAPIClient(ts.URL).Suggest("doc", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 2 || terms[0] != "docker" {
		t.Errorf("terms = %v", terms)
	}
}
