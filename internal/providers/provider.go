// Package providers holds the HTTP clients for the two external
// collaborators: the OCR extraction service and the LLM used for zone
// inference and regulatory analysis. Both are opaque to the pipeline core;
// everything interesting about their output is validated downstream.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// AnalysisClient is the interface for chat/completion requests used by zone
// inference and per-zone analysis. Modeled as an injected capability so the
// pipeline stages can be tested against a deterministic stub.
type AnalysisClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openrouter").
	Name() string
}

// OCRProvider handles document-to-text extraction. Separate from the
// analysis client because it has different rate limiting and result handling
// (per-page markdown and images vs structured responses).
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "mistral-ocr").
	Name() string

	// ProcessDocument uploads a PDF and extracts text and embedded images
	// for every page.
	ProcessDocument(ctx context.Context, pdfPath string) (*OCRResponse, error)

	// Rate limiting properties, consumed by the orchestration layer.
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user"
	Content string `json:"content"`
}

// ResponseFormat specifies structured output format. The same JSON Schema is
// sent outbound as the response format and used inbound to validate what
// came back.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to the analysis LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration

	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an analysis call.
type ChatResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"` // Parsed if ResponseFormat was set

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	RequestID string `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// OCR wire types. These mirror the Mistral OCR response shape and are the
// raw input to the standardizer; nothing outside providers and standardize
// should depend on them.

// OCRResponse is the provider response for a whole document.
type OCRResponse struct {
	Model              string     `json:"model"`
	Pages              []OCRPage  `json:"pages"`
	DocumentAnnotation string     `json:"document_annotation,omitempty"`
	UsageInfo          *UsageInfo `json:"usage_info,omitempty"`
}

// OCRPage is one page of raw OCR output. Index is 0-based as emitted by the
// provider; the standardizer renumbers from 1.
type OCRPage struct {
	Index      int           `json:"index"`
	Markdown   string        `json:"markdown"`
	Images     []OCRImage    `json:"images,omitempty"`
	Dimensions OCRDimensions `json:"dimensions"`
}

// OCRImage is an embedded image with its bounding box and base64 payload.
type OCRImage struct {
	ID           string `json:"id"`
	TopLeftX     int    `json:"top_left_x"`
	TopLeftY     int    `json:"top_left_y"`
	BottomRightX int    `json:"bottom_right_x"`
	BottomRightY int    `json:"bottom_right_y"`
	ImageBase64  string `json:"image_base64,omitempty"`
}

// OCRDimensions reports page dimensions.
type OCRDimensions struct {
	DPI    int `json:"dpi"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UsageInfo reports provider-side usage accounting.
type UsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}
