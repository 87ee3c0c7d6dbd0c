package hwpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// maxTemplateSize bounds a downloaded template.
const maxTemplateSize = 32 << 20

// TemplateSource loads the raw template archive at export time.
type TemplateSource interface {
	Load(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the template from a local path.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("%w: no template path configured", ErrTemplateUnavailable)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTemplateUnavailable, s.Path, err)
	}
	return data, nil
}

func (s FileSource) String() string {
	return s.Path
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type HTTPSourceConfig struct {
	URL        string
	UserAgent  string
	HTTPClient httpDoer
}

// HTTPSource downloads the template from a well-known URL on every load.
type HTTPSource struct {
	url        string
	userAgent  string
	httpClient httpDoer
}

func NewHTTPSource(cfg HTTPSourceConfig) (*HTTPSource, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, errors.New("template URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid template URL %q", cfg.URL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		url:        raw,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

func (s *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create template request: %w", err)
	}
	req.Header.Set("Accept", "application/hwp+zip, application/octet-stream, */*")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", ErrTemplateUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTemplateUnavailable, s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTemplateUnavailable, s.url, err)
	}
	if len(data) > maxTemplateSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTemplateUnavailable, s.url, maxTemplateSize)
	}
	return data, nil
}

func (s *HTTPSource) String() string {
	return s.url
}

// NewSource picks the HTTP source when a URL is configured and the file
// source otherwise.
func NewSource(path, rawURL string) (TemplateSource, error) {
	if strings.TrimSpace(rawURL) != "" {
		return NewHTTPSource(HTTPSourceConfig{URL: rawURL, UserAgent: "ministrylog"})
	}
	return FileSource{Path: path}, nil
}
