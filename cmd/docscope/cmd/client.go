package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/service"
)

// apiClient talks to a running docscope server. CLI commands prefer the HTTP
// API when a server is up so they never contend with it for the SQLite
// database or the index builder lock.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{base: base, http: http.DefaultClient}
}

// apiError carries the server's error payload, including the query position
// for parse failures.
type apiError struct {
	Status   int
	Message  string `json:"error"`
	Position int    `json:"position"`
	Token    string `json:"token"`
}

func (e *apiError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s (at position %d near %q)", e.Message, e.Position, e.Token)
	}
	return e.Message
}

func (c *apiClient) Search(req *models.SearchRequest) (*models.SearchResponse, error) {
	var response models.SearchResponse
	if err := c.post("/api/v1/search", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *apiClient) Scan(full bool) (*service.ScanStats, error) {
	var stats service.ScanStats
	if err := c.post("/api/v1/scan", map[string]bool{"full": full}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *apiClient) Suggest(prefix string, limit int) ([]string, error) {
	q := url.Values{"prefix": {prefix}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var response struct {
		Terms []string `json:"terms"`
	}
	if err := c.get("/api/v1/suggest?"+q.Encode(), &response); err != nil {
		return nil, err
	}
	return response.Terms, nil
}

func (c *apiClient) Status() (*service.Status, error) {
	var status service.Status
	if err := c.get("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *apiClient) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return c.decode(resp, out)
}

func (c *apiClient) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return c.decode(resp, out)
}

func (c *apiClient) decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		apiErr := &apiError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("server returned %d: %s", resp.StatusCode, string(raw))
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
