package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// MaxModelBytes caps how much of a model response is read.
const MaxModelBytes = 64 << 20

// Loader resolves a model location to a decoded Model.
type Loader interface {
	Load(ctx context.Context, location string) (*Model, error)
}

// NewLoader picks an HTTP loader for http(s) URLs and a file loader for
// everything else.
func NewLoader(location string) Loader {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPLoader(nil)
	}
	return FileLoader{}
}

type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader uses client, or a client with a 30s timeout when nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPLoader{client: client}
}

func (l *HTTPLoader) Load(ctx context.Context, location string) (*Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", location, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxModelBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	m, err := ParseGLB(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", location, err)
	}
	m.Source = location
	return m, nil
}

// FileLoader reads models from the local filesystem. file:// URLs are
// accepted.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, location string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := location
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	m, err := ParseGLB(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", location, err)
	}
	m.Source = location
	return m, nil
}

// Pending is the completion signal of a background load. It resolves once.
type Pending struct {
	name  string
	done  chan struct{}
	model *Model
	err   error
}

// LoadAsync starts loading location in a goroutine. A failure is logged
// and never retried; the scene carries on without the model.
func LoadAsync(ctx context.Context, loader Loader, name, location string, log *slog.Logger) *Pending {
	if log == nil {
		log = slog.Default()
	}
	p := &Pending{name: name, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		start := time.Now()
		m, err := loader.Load(ctx, location)
		if err != nil {
			p.err = err
			log.Error("failed to load model", "name", name, "url", location, "error", err)
			return
		}
		p.model = m
		log.Info("model loaded",
			"name", name,
			"url", location,
			"bytes", m.Size,
			"animations", len(m.Animations),
			"elapsed", time.Since(start),
		)
	}()

	return p
}

// Poll reports whether the load has finished without blocking.
func (p *Pending) Poll() (bool, error) {
	select {
	case <-p.done:
		return true, p.err
	default:
		return false, nil
	}
}

// Wait blocks until the load finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (*Model, error) {
	select {
	case <-p.done:
		return p.model, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Model returns the loaded model, or nil while pending or after a failure.
func (p *Pending) Model() *Model {
	select {
	case <-p.done:
		return p.model
	default:
		return nil
	}
}

func (p *Pending) Name() string { return p.name }
