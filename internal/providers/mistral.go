package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const (
	MistralOCRName    = "mistral-ocr"
	MistralOCRBaseURL = "https://api.mistral.ai/v1"
	MistralOCRModel   = "mistral-ocr-latest"
)

// MistralOCRConfig holds configuration for the Mistral OCR client.
type MistralOCRConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	IncludeImages bool    // Whether to include base64 image data in response
	RateLimit     float64 // Requests per second (default: 6.0)
	MaxRetries    int
	RetryDelay    time.Duration
}

// MistralOCRClient implements OCRProvider using the Mistral OCR API.
// Extraction is a three-step flow: upload the PDF to the files endpoint with
// purpose "ocr", fetch a signed URL for the uploaded file, then run OCR
// against that URL.
type MistralOCRClient struct {
	apiKey        string
	baseURL       string
	model         string
	timeout       time.Duration
	includeImages bool
	rateLimit     float64
	maxRetries    int
	retryDelay    time.Duration
	limiter       *rate.Limiter
	client        *http.Client
}

// NewMistralOCRClient creates a new Mistral OCR client.
func NewMistralOCRClient(cfg MistralOCRConfig) *MistralOCRClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralOCRBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = MistralOCRModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 6.0 // Mistral OCR default rate limit
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	return &MistralOCRClient{
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		timeout:       cfg.Timeout,
		includeImages: cfg.IncludeImages,
		rateLimit:     cfg.RateLimit,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		client:        &http.Client{},
	}
}

// Name returns the provider identifier.
func (c *MistralOCRClient) Name() string {
	return MistralOCRName
}

// RequestsPerSecond returns the rate limit for Mistral OCR.
func (c *MistralOCRClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *MistralOCRClient) MaxRetries() int {
	return c.maxRetries
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *MistralOCRClient) RetryDelayBase() time.Duration {
	return c.retryDelay
}

// ProcessDocument uploads a PDF and runs OCR on every page.
func (c *MistralOCRClient) ProcessDocument(ctx context.Context, pdfPath string) (*OCRResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fileID, err := c.uploadFile(ctx, pdfPath)
	if err != nil {
		return nil, wrapTimeout(err, MistralOCRName, "upload", c.timeout)
	}

	signedURL, err := c.getSignedURL(ctx, fileID)
	if err != nil {
		return nil, wrapTimeout(err, MistralOCRName, "signed url", c.timeout)
	}

	resp, err := c.processOCR(ctx, signedURL)
	if err != nil {
		return nil, wrapTimeout(err, MistralOCRName, "ocr", c.timeout)
	}

	if len(resp.Pages) == 0 {
		return nil, fmt.Errorf("no pages in OCR response for %s", filepath.Base(pdfPath))
	}
	return resp, nil
}

// uploadFile uploads a PDF to the Mistral files endpoint with purpose "ocr".
func (c *MistralOCRClient) uploadFile(ctx context.Context, pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy PDF into request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var uploaded mistralFileResponse
	if err := json.Unmarshal(respBody, &uploaded); err != nil {
		return "", fmt.Errorf("failed to unmarshal upload response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("upload response missing file id")
	}
	return uploaded.ID, nil
}

// getSignedURL fetches a signed URL for an uploaded file.
func (c *MistralOCRClient) getSignedURL(ctx context.Context, fileID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/files/"+fileID+"/url", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(req)
	if err != nil {
		return "", err
	}

	var signed mistralSignedURLResponse
	if err := json.Unmarshal(respBody, &signed); err != nil {
		return "", fmt.Errorf("failed to unmarshal signed URL response: %w", err)
	}
	if signed.URL == "" {
		return "", fmt.Errorf("signed URL response missing url")
	}
	return signed.URL, nil
}

// processOCR runs OCR against a signed document URL.
func (c *MistralOCRClient) processOCR(ctx context.Context, documentURL string) (*OCRResponse, error) {
	reqBody := mistralOCRRequest{
		Model: c.model,
		Document: mistralDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
		IncludeImageBase64: c.includeImages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ocr", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var ocrResp OCRResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OCR response: %w", err)
	}
	return &ocrResp, nil
}

// do executes a request and returns the body, surfacing API error messages.
func (c *MistralOCRClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp mistralErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("Mistral OCR error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("Mistral OCR error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// Mistral OCR API request/private types

type mistralOCRRequest struct {
	Model              string          `json:"model"`
	Document           mistralDocument `json:"document"`
	IncludeImageBase64 bool            `json:"include_image_base64,omitempty"`
	Pages              []int           `json:"pages,omitempty"`
	ImageLimit         int             `json:"image_limit,omitempty"`
	ImageMinSize       int             `json:"image_min_size,omitempty"`
}

type mistralDocument struct {
	Type        string `json:"type"` // "document_url"
	DocumentURL string `json:"document_url,omitempty"`
}

type mistralFileResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
}

type mistralSignedURLResponse struct {
	URL string `json:"url"`
}

type mistralErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Verify interface
var _ OCRProvider = (*MistralOCRClient)(nil)
