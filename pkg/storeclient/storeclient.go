package storeclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/rs/zerolog"
)

// Client is the sole collaborator speaking to the triple store, entirely
// over HTTP+SPARQL 1.1. Every call wraps its own context.WithTimeout
// around a shared, caller-configurable *http.Client.
type Client struct {
	baseURL   string
	namespace string
	http      *http.Client
	logger    zerolog.Logger
}

// Config configures a Client.
type Config struct {
	// BaseURL is the triple store's base, e.g. "http://localhost:9999/blazegraph".
	BaseURL string
	// Namespace is the target namespace.
	Namespace string
	// Timeout bounds every individual HTTP call; zero uses a 1 hour
	// default sized for bulk loads.
	Timeout time.Duration
}

// New creates a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Hour
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		namespace: cfg.Namespace,
		http:      &http.Client{Timeout: timeout},
		logger:    log.WithComponent("storeclient"),
	}
}

// NamespaceExists performs GET <base>/namespace and reports whether the
// client's configured namespace is already present.
func (c *Client) NamespaceExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/namespace", nil)
	if err != nil {
		return false, fmt.Errorf("build namespace introspection request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("namespace introspection: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("namespace introspection: HTTP %d", resp.StatusCode)
	}
	return strings.Contains(string(body), c.namespace), nil
}

// CreateNamespace issues POST <base>/namespace with a quads-enabled
// namespace configuration block.
func (c *Client) CreateNamespace(ctx context.Context) error {
	config := fmt.Sprintf(
		"com.bigdata.rdf.sail.namespace=%s\ncom.bigdata.rdf.store.AbstractTripleStore.quads=true\n",
		c.namespace,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/namespace", strings.NewReader(config))
	if err != nil {
		return fmt.Errorf("build namespace creation request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("create namespace: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create namespace: HTTP %d: %s", resp.StatusCode, body)
	}
	return nil
}

// EnsureNamespace creates the configured namespace if it does not exist.
func (c *Client) EnsureNamespace(ctx context.Context) error {
	exists, err := c.NamespaceExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	c.logger.Info().Str("namespace", c.namespace).Msg("creating namespace")
	return c.CreateNamespace(ctx)
}

// LoadQuads bulk-loads raw N-Quads bytes via POST <base>/namespace/<ns>.
// Each call is one chunk; NQuadsLoader is responsible for splitting
// oversized files before calling this.
func (c *Client) LoadQuads(ctx context.Context, data []byte) error {
	timer := metrics.NewTimer()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nsURL(""), strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("build bulk load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/n-quads")

	resp, err := c.http.Do(req)
	status := "ok"
	if err != nil {
		status = "failed"
	}
	defer func() {
		metrics.ChunksUploadedTotal.WithLabelValues(status).Inc()
		timer.ObserveDurationVec(metrics.ChunkUploadDuration, status)
	}()
	if err != nil {
		return fmt.Errorf("bulk load: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		status = "failed"
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bulk load: HTTP %d: %s", resp.StatusCode, body)
	}
	return nil
}

// QueryResult is the decoded body of a SPARQL response: raw bytes plus
// content type, left for the caller to parse (SELECT/ASK JSON or
// CONSTRUCT N-Quads).
type QueryResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Query issues a SPARQL query (SELECT/ASK/CONSTRUCT) against the
// namespace's /sparql endpoint. caller labels the caller for metrics
// ("integrity", "enrich", "validate"); kind labels the query shape
// ("select", "ask", "construct").
func (c *Client) Query(ctx context.Context, caller, kind, sparql string) (*QueryResult, error) {
	return c.sparqlCall(ctx, caller, kind, "query", sparql)
}

// Update issues a SPARQL UPDATE (e.g. INSERT DATA, CLEAR ALL) against
// the namespace's /sparql endpoint.
func (c *Client) Update(ctx context.Context, caller, sparql string) error {
	_, err := c.sparqlCall(ctx, caller, "update", "update", sparql)
	return err
}

// ClearAll issues a SPARQL UPDATE "CLEAR ALL" for resets.
func (c *Client) ClearAll(ctx context.Context, caller string) error {
	return c.Update(ctx, caller, "CLEAR ALL")
}

func (c *Client) sparqlCall(ctx context.Context, caller, kind, formField, sparql string) (*QueryResult, error) {
	timer := metrics.NewTimer()
	form := url.Values{}
	form.Set(formField, sparql)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.nsURL("/sparql"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.http.Do(req)
	status := "ok"
	defer func() {
		timer.ObserveDurationVec(metrics.QueryDuration, caller, kind)
		metrics.QueriesTotal.WithLabelValues(caller, status).Inc()
	}()
	if err != nil {
		status = "failed"
		return nil, fmt.Errorf("sparql %s: %w", formField, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		status = "failed"
		return nil, fmt.Errorf("read sparql response: %w", err)
	}

	if resp.StatusCode >= 400 {
		status = "failed"
		return nil, fmt.Errorf("sparql %s: HTTP %d: %s", formField, resp.StatusCode, body)
	}

	return &QueryResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) nsURL(suffix string) string {
	return fmt.Sprintf("%s/namespace/%s%s", c.baseURL, c.namespace, suffix)
}
