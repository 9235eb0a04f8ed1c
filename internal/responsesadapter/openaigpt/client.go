package openaigpt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// newClient creates an OpenAI client over the provided transport. The API key
// is injected here; everything else on the request path belongs to the
// transport chain.
func newClient(apiKey, baseURL string, transport http.RoundTripper) (*openai.Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}

	httpClient := &http.Client{
		Transport: transport,
		// Client.Timeout = 0; the request timeout below bounds upstream calls
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		// Reasoning models can take minutes on large inputs
		option.WithRequestTimeout(5 * time.Minute),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &client, nil
}
