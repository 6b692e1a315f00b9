package llm

import (
	"context"
	"errors"
	"net/http"
)

// excerptLimit bounds the response-body excerpt carried by HTTP errors and
// written to the diagnostics log.
const excerptLimit = 512

// Recorder receives one structured diagnostics entry per failed or degraded
// request. Implementations must never fail loudly; the engine calls them on
// every abort path.
type Recorder interface {
	Record(kind, model, endpoint string, detail map[string]any)
}

// Engine runs the full request pipeline: adapt, send, check status, parse,
// extract. It holds no conversation state; the caller owns that.
type Engine struct {
	transport Transport
	recorder  Recorder
}

// NewEngine creates an Engine. recorder may be nil, in which case
// diagnostics are dropped.
func NewEngine(transport Transport, recorder Recorder) *Engine {
	return &Engine{transport: transport, recorder: recorder}
}

// Ask sends the conversation and returns the assistant's reply text. Every
// failure is returned as an *Error and recorded once; adaptation warnings
// are recorded but do not abort the call.
func (e *Engine) Ask(ctx context.Context, conv []Message, opts RequestOptions) (string, error) {
	req, err := BuildRequest(conv, opts)
	if err != nil {
		e.recordError(err, opts)
		return "", err
	}

	for _, warning := range req.Warnings {
		e.record(KindUnsupportedParameter, opts, map[string]any{
			"param":  warning.Param,
			"detail": warning.Detail,
		})
	}

	status, body, err := e.transport.Post(ctx, req.URL, opts.APIKey, req.Body)
	if err != nil {
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			err = &Error{Kind: KindNetworkError, Detail: "request failed", Err: err}
		}
		e.recordError(err, opts)
		return "", err
	}

	if status != http.StatusOK {
		httpErr := &Error{Kind: KindHTTPError, Status: status, Detail: excerpt(body)}
		e.recordError(httpErr, opts)
		return "", httpErr
	}

	text, err := ExtractText(body)
	if err != nil {
		e.recordError(err, opts)
		return "", err
	}

	return text, nil
}

func (e *Engine) recordError(err error, opts RequestOptions) {
	detail := map[string]any{"error": err.Error()}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Status != 0 {
			detail["status"] = apiErr.Status
		}
		if apiErr.Detail != "" {
			detail["detail"] = apiErr.Detail
		}
		e.record(apiErr.Kind, opts, detail)
		return
	}
	e.record(KindNetworkError, opts, detail)
}

func (e *Engine) record(kind ErrorKind, opts RequestOptions, detail map[string]any) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(string(kind), opts.Model, opts.EndpointURL, detail)
}

func excerpt(body []byte) string {
	if len(body) > excerptLimit {
		return string(body[:excerptLimit]) + "..."
	}
	return string(body)
}
