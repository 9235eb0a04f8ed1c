// Package proxy implements the HTTP surface of the bridge: an
// OpenAI-compatible chat completions endpoint backed by the Responses API,
// plus model listing, the built-in tool catalog, and health probes.
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tmessner/responsum/internal/keysource"
	"github.com/tmessner/responsum/internal/observability/middleware"
	"github.com/tmessner/responsum/internal/responsesadapter/openaigpt"
)

const defaultMaxRequestBytes = 10 << 20 // 10 MiB

// ReadinessChecker reports whether the application is ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

type options struct {
	transport       http.RoundTripper
	upstreamBaseURL string
	maxRequestBytes int64
}

// Option configures the proxy.
type Option func(*options)

// WithTransport overrides the upstream HTTP transport. Used by tests to mock
// the Responses API without network calls.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithUpstreamBaseURL overrides the upstream API base URL.
func WithUpstreamBaseURL(baseURL string) Option {
	return func(o *options) {
		o.upstreamBaseURL = baseURL
	}
}

// WithMaxRequestBytes overrides the request body size limit.
func WithMaxRequestBytes(maxBytes int64) Option {
	return func(o *options) {
		o.maxRequestBytes = maxBytes
	}
}

// Proxy is the bridge HTTP server. Create it with New, then either Start it
// on an address or mount it directly as an http.Handler (tests do the latter
// via httptest).
type Proxy struct {
	handler http.Handler
	server  *http.Server
}

var _ http.Handler = (*Proxy)(nil)

// New creates a Proxy serving chat completions through the given key source.
func New(keys keysource.Source, checker ReadinessChecker, opts ...Option) (*Proxy, error) {
	if keys == nil {
		return nil, fmt.Errorf("key source cannot be nil")
	}
	if checker == nil {
		return nil, fmt.Errorf("readiness checker cannot be nil")
	}

	o := options{
		transport:       http.DefaultTransport,
		maxRequestBytes: defaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	adapter := openaigpt.NewCreateChatCompletionAdapter(keys, o.upstreamBaseURL)

	mux := http.NewServeMux()
	mux.Handle("POST /v1/chat/completions", &CreateChatCompletionsHandler{
		Adapter:   adapter,
		Transport: o.transport,
	})
	mux.HandleFunc("GET /v1/models", modelsHandler())
	mux.HandleFunc("GET /v1/tools", toolsHandler())
	mux.HandleFunc("GET /healthz/live", livenessHandler())
	mux.HandleFunc("GET /healthz/ready", readinessHandler(checker))

	handler := applyMiddlewares(mux,
		Recovery,
		middleware.RequestIDGeneration,
		middleware.TraceContextExtraction,
		middleware.Logging(slog.Default()),
		middleware.RequestIDPropagation,
		RequestSizeLimit(o.maxRequestBytes),
	)

	return &Proxy{handler: handler}, nil
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start begins serving on addr. It returns once the listener is bound; runtime
// errors arrive on the returned channel.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	p.server = &http.Server{
		Handler:           p.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Upstream reasoning calls can run for minutes
		WriteTimeout: 5 * time.Minute,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := p.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
