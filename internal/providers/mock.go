package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockAnalysisClient is an AnalysisClient for testing.
type MockAnalysisClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[ChatRequest]
}

// NewMockAnalysisClient creates a new mock client with sensible defaults.
func NewMockAnalysisClient() *MockAnalysisClient {
	return &MockAnalysisClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockAnalysisClient) Name() string {
	return MockClientName
}

// Chat sends a mock chat request.
func (c *MockAnalysisClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.lastRequest.Store(req)

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
	}

	if c.ShouldFail {
		result.Success = false
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		return result, fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		result.Success = false
		result.ErrorType = "mock_failure"
		result.ErrorMessage = fmt.Sprintf("mock client failed after %d requests", c.FailAfter)
		return result, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.Success = false
			result.ErrorType = "context_cancelled"
			result.ErrorMessage = ctx.Err().Error()
			return result, ctx.Err()
		}
	}

	result.Success = true
	result.Content = c.ResponseText
	if req.ResponseFormat != nil && len(c.ResponseJSON) > 0 {
		result.ParsedJSON = c.ResponseJSON
		result.Content = string(c.ResponseJSON)
	}
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockAnalysisClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, nil if none were made.
func (c *MockAnalysisClient) LastRequest() *ChatRequest {
	return c.lastRequest.Load()
}

// Reset resets the request counter.
func (c *MockAnalysisClient) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ AnalysisClient = (*MockAnalysisClient)(nil)

// MockOCRProvider is an OCRProvider for testing.
type MockOCRProvider struct {
	ProviderName string
	ShouldFail   bool
	Response     *OCRResponse
	RPS          float64
	Retries      int
	RetryDelay   time.Duration

	requestCount atomic.Int64
}

// NewMockOCRProvider creates a new mock OCR provider.
func NewMockOCRProvider() *MockOCRProvider {
	return &MockOCRProvider{
		ProviderName: "mock-ocr",
		RPS:          10.0,
		Retries:      3,
		RetryDelay:   time.Second,
		Response: &OCRResponse{
			Model: "mock-ocr-model",
			Pages: []OCRPage{{Index: 0, Markdown: "mock OCR text"}},
		},
	}
}

// Name returns the provider identifier.
func (p *MockOCRProvider) Name() string {
	return p.ProviderName
}

// RequestsPerSecond returns the rate limit.
func (p *MockOCRProvider) RequestsPerSecond() float64 {
	return p.RPS
}

// MaxRetries returns the maximum retry attempts.
func (p *MockOCRProvider) MaxRetries() int {
	return p.Retries
}

// RetryDelayBase returns the base delay between retries.
func (p *MockOCRProvider) RetryDelayBase() time.Duration {
	return p.RetryDelay
}

// ProcessDocument returns the configured response.
func (p *MockOCRProvider) ProcessDocument(ctx context.Context, pdfPath string) (*OCRResponse, error) {
	p.requestCount.Add(1)
	if p.ShouldFail {
		return nil, fmt.Errorf("mock OCR provider configured to fail")
	}
	return p.Response, nil
}

// RequestCount returns the number of requests made.
func (p *MockOCRProvider) RequestCount() int64 {
	return p.requestCount.Load()
}

// Verify interface
var _ OCRProvider = (*MockOCRProvider)(nil)
