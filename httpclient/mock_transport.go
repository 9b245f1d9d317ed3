package httpclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
)

// MockTransport is a configurable http.RoundTripper for tests. It records
// every request (with its body) and answers with stubbed responses.
type MockTransport struct {
	mu          sync.RWMutex
	stubs       []stub
	defaultResp *stubResponse
	defaultErr  error
	requests    []RecordedRequest
}

// RecordedRequest is a request seen by MockTransport.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

type stubResponse struct {
	statusCode int
	body       string
}

type stub struct {
	matcher  func(*http.Request) bool
	response *stubResponse
	err      error
}

// NewMockTransport creates a new MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// StubResponse answers every unmatched request with statusCode and body.
func (m *MockTransport) StubResponse(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = &stubResponse{statusCode: statusCode, body: body}
	return m
}

// StubError fails every unmatched request with err.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
	return m
}

// StubPath answers requests for path with statusCode and body.
func (m *MockTransport) StubPath(path string, statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{
		matcher:  func(req *http.Request) bool { return req.URL.Path == path },
		response: &stubResponse{statusCode: statusCode, body: body},
	})
	return m
}

// StubPathError fails requests for path with err.
func (m *MockTransport) StubPathError(path string, err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, stub{
		matcher: func(req *http.Request) bool { return req.URL.Path == path },
		err:     err,
	})
	return m
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   string(body),
	})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	// First match wins.
	for _, s := range m.stubs {
		if s.matcher(req) {
			if s.err != nil {
				return nil, s.err
			}
			return s.response.build(req), nil
		}
	}

	if m.defaultErr != nil {
		return nil, m.defaultErr
	}
	if m.defaultResp != nil {
		return m.defaultResp.build(req), nil
	}

	return nil, errors.New("no stub found for request: " + req.Method + " " + req.URL.String())
}

// Requests returns all requests made through this transport.
func (m *MockTransport) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest{}, m.requests...)
}

// RequestCount returns the number of requests made.
func (m *MockTransport) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest returns the most recent request and whether there was one.
func (m *MockTransport) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Reset clears recorded requests and stubs.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.stubs = nil
	m.defaultResp = nil
	m.defaultErr = nil
}

func (s *stubResponse) build(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode:    s.statusCode,
		Status:        http.StatusText(s.statusCode),
		Header:        make(http.Header),
		Body:          io.NopCloser(bytes.NewBufferString(s.body)),
		ContentLength: int64(len(s.body)),
		Request:       req,
	}
}
