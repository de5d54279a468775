// Package testutil provides testing utilities for the Hacker News client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockHN is a configurable mock Hacker News Firebase server for testing.
// Unseeded paths answer 200 with a JSON null body, matching how the real
// API responds to unknown ids and usernames.
type MockHN struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	requests map[string]int
	total    int
}

// NewMockHN creates a new mock Hacker News server.
func NewMockHN() *MockHN {
	mock := &MockHN{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests[r.URL.Path]++
		mock.total++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockHN) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHN) Close() {
	m.server.Close()
}

// Reset clears all request tracking.
func (m *MockHN) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
	m.total = 0
}

// SetHandler sets a custom handler for a specific path.
func (m *MockHN) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockHN) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SeedItem serves the given JSON body for an item id.
func (m *MockHN) SeedItem(id uint32, body string) {
	m.SetResponse(fmt.Sprintf("/item/%d.json", id), MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	})
}

// SeedUser serves the given JSON body for a username.
func (m *MockHN) SeedUser(username string, body string) {
	m.SetResponse("/user/"+username+".json", MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
	})
}

// SeedList serves an ordered id list for one of the list endpoints
// (topstories, newstories, beststories, askstories, showstories,
// jobstories).
func (m *MockHN) SeedList(endpoint string, ids ...uint32) {
	m.SetResponse("/"+endpoint+".json", MockResponse{
		StatusCode: http.StatusOK,
		Body:       mustJSON(ids),
	})
}

// SeedMaxItem serves the newest item id.
func (m *MockHN) SeedMaxItem(id uint32) {
	m.SetResponse("/maxitem.json", MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("%d", id),
	})
}

// SeedUpdates serves the recently changed item ids and usernames.
func (m *MockHN) SeedUpdates(items []uint32, profiles []string) {
	m.SetResponse("/updates.json", MockResponse{
		StatusCode: http.StatusOK,
		Body: mustJSON(map[string]any{
			"items":    items,
			"profiles": profiles,
		}),
	})
}

// Requests returns the number of requests made to a path.
func (m *MockHN) Requests(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// ItemRequests returns the number of requests made for an item id.
func (m *MockHN) ItemRequests(id uint32) int {
	return m.Requests(fmt.Sprintf("/item/%d.json", id))
}

// TotalRequests returns the number of requests made to the server.
func (m *MockHN) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// defaultHandler answers like the real API does for unknown resources.
func (m *MockHN) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("null"))
}

// StoryJSON builds a story item body. Score is derived from the id and
// time is fixed so tests can assert exact values.
func StoryJSON(id uint32, by, title string, kids ...uint32) string {
	item := map[string]any{
		"id":          id,
		"type":        "story",
		"by":          by,
		"title":       title,
		"score":       10 * id,
		"time":        1175714200,
		"descendants": len(kids),
	}
	if len(kids) > 0 {
		item["kids"] = kids
	}
	return mustJSON(item)
}

// CommentJSON builds a comment item body.
func CommentJSON(id uint32, by string, parent uint32, text string, kids ...uint32) string {
	item := map[string]any{
		"id":     id,
		"type":   "comment",
		"by":     by,
		"parent": parent,
		"text":   text,
		"time":   1175714200,
	}
	if len(kids) > 0 {
		item["kids"] = kids
	}
	return mustJSON(item)
}

// JobJSON builds a job item body.
func JobJSON(id uint32, title string) string {
	return mustJSON(map[string]any{
		"id":    id,
		"type":  "job",
		"title": title,
		"score": 1,
		"time":  1175714200,
	})
}

// PollJSON builds a poll item body.
func PollJSON(id uint32, by, title string, parts ...uint32) string {
	item := map[string]any{
		"id":          id,
		"type":        "poll",
		"by":          by,
		"title":       title,
		"score":       10 * id,
		"time":        1175714200,
		"descendants": 0,
	}
	if len(parts) > 0 {
		item["parts"] = parts
	}
	return mustJSON(item)
}

// PollOptJSON builds a pollopt item body.
func PollOptJSON(id uint32, by string, poll uint32, text string) string {
	return mustJSON(map[string]any{
		"id":    id,
		"type":  "pollopt",
		"by":    by,
		"poll":  poll,
		"text":  text,
		"score": 5,
		"time":  1175714200,
	})
}

// UserJSON builds a user body.
func UserJSON(username string, karma uint32, submitted ...uint32) string {
	u := map[string]any{
		"id":      username,
		"created": 1173923446,
		"karma":   karma,
	}
	if len(submitted) > 0 {
		u["submitted"] = submitted
	}
	return mustJSON(u)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
