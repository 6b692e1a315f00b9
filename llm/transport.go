package llm

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// requestTimeout bounds every outbound call. There is no retry and no
// mid-flight cancellation beyond this deadline.
const requestTimeout = 60 * time.Second

// Transport performs one HTTP exchange and reports the raw outcome. It does
// not interpret status codes; that is the engine's job.
type Transport interface {
	Post(ctx context.Context, url, apiKey string, body any) (int, []byte, error)
}

// HTTPTransport is the production Transport, a thin wrapper over resty.
type HTTPTransport struct {
	client *resty.Client
}

// NewTransport creates a Transport with the fixed 60-second timeout and
// retries disabled.
func NewTransport() *HTTPTransport {
	client := resty.New()
	client.SetTimeout(requestTimeout)
	client.SetRetryCount(0)
	return &HTTPTransport{client: client}
}

// Post executes a single POST with a JSON body and bearer authorization.
// A connection or timeout failure is returned as a NetworkError.
func (t *HTTPTransport) Post(ctx context.Context, url, apiKey string, body any) (int, []byte, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return 0, nil, &Error{Kind: KindNetworkError, Detail: "request failed", Err: err}
	}

	return resp.StatusCode(), resp.Body(), nil
}
