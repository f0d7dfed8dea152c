package vector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type httpClient struct {
	base   string
	apiKey string
	client *http.Client
	chunk  chunkSettings
	logger *slog.Logger
}

type chunkSettings struct {
	Size    int
	Overlap int
}

// NewClient creates a Client for the configured corpus service. When the
// config is disabled, the returned client rejects all operations with
// ErrDisabled.
func NewClient(cfg *Config, logger *slog.Logger) Client {
	if !cfg.Enabled() {
		return &disabledClient{}
	}

	return &httpClient{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
		chunk: chunkSettings{
			Size:    cfg.ChunkSize,
			Overlap: cfg.ChunkOverlap,
		},
		logger: logger.With("system", "vector"),
	}
}

func (c *httpClient) Enabled() bool { return true }

func (c *httpClient) CreateCorpus(ctx context.Context, tenantID string) (*Corpus, error) {
	body := map[string]string{"tenant_id": tenantID}

	var corpus Corpus
	status, detail, err := c.do(ctx, http.MethodPost, "/v1/corpora", body, &corpus)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		return &corpus, nil
	case http.StatusConflict:
		return nil, ErrCorpusExists
	default:
		return nil, c.statusError("create corpus", status, detail)
	}
}

func (c *httpClient) FindCorpus(ctx context.Context, tenantID string) (*Corpus, error) {
	path := "/v1/corpora?tenant_id=" + url.QueryEscape(tenantID)

	var corpus Corpus
	status, detail, err := c.do(ctx, http.MethodGet, path, nil, &corpus)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return &corpus, nil
	case http.StatusNotFound:
		return nil, ErrCorpusNotFound
	default:
		return nil, c.statusError("find corpus", status, detail)
	}
}

func (c *httpClient) ImportFile(ctx context.Context, corpusID, sourceURL, displayName string) (*File, error) {
	body := map[string]any{
		"source_url":    sourceURL,
		"display_name":  displayName,
		"chunk_size":    c.chunk.Size,
		"chunk_overlap": c.chunk.Overlap,
	}
	path := fmt.Sprintf("/v1/corpora/%s/files:import", url.PathEscape(corpusID))

	var file File
	status, detail, err := c.do(ctx, http.MethodPost, path, body, &file)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		return &file, nil
	case http.StatusNotFound:
		return nil, ErrCorpusNotFound
	default:
		return nil, c.statusError("import file", status, detail)
	}
}

func (c *httpClient) UploadFile(ctx context.Context, corpusID, displayName string, content []byte) (*File, error) {
	body := map[string]any{
		"display_name":  displayName,
		"content":       base64.StdEncoding.EncodeToString(content),
		"chunk_size":    c.chunk.Size,
		"chunk_overlap": c.chunk.Overlap,
	}
	path := fmt.Sprintf("/v1/corpora/%s/files", url.PathEscape(corpusID))

	var file File
	status, detail, err := c.do(ctx, http.MethodPost, path, body, &file)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		return &file, nil
	case http.StatusNotFound:
		return nil, ErrCorpusNotFound
	default:
		return nil, c.statusError("upload file", status, detail)
	}
}

func (c *httpClient) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	path := fmt.Sprintf("/v1/corpora/%s/files/%s",
		url.PathEscape(corpusID), url.PathEscape(fileID))

	status, detail, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return c.statusError("delete file", status, detail)
	}
}

// maxErrorBody bounds how much of an error response is carried into the
// returned error.
const maxErrorBody = 1024

// do issues a request and decodes a JSON response into out when provided.
// Network failures are wrapped as transient; HTTP status handling is left
// to the caller. For non-success statuses a bounded slice of the response
// body is returned as detail so server error messages reach the logs.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any) (int, string, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, "", fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", Transient(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, strings.TrimSpace(string(snippet)), nil
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}

	return resp.StatusCode, "", nil
}

func (c *httpClient) statusError(op string, status int, detail string) error {
	var err error
	if detail != "" {
		err = fmt.Errorf("%s: unexpected status %d: %s", op, status, detail)
	} else {
		err = fmt.Errorf("%s: unexpected status %d", op, status)
	}
	if status >= http.StatusInternalServerError {
		return Transient(err)
	}
	return err
}

// disabledClient is returned when no vector service is configured.
type disabledClient struct{}

func (d *disabledClient) Enabled() bool { return false }

func (d *disabledClient) CreateCorpus(context.Context, string) (*Corpus, error) {
	return nil, ErrDisabled
}

func (d *disabledClient) FindCorpus(context.Context, string) (*Corpus, error) {
	return nil, ErrDisabled
}

func (d *disabledClient) ImportFile(context.Context, string, string, string) (*File, error) {
	return nil, ErrDisabled
}

func (d *disabledClient) UploadFile(context.Context, string, string, []byte) (*File, error) {
	return nil, ErrDisabled
}

func (d *disabledClient) DeleteFile(context.Context, string, string) error {
	return ErrDisabled
}
