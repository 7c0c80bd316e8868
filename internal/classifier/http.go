package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"casedocs/internal/config"
)

// HTTPClient talks to the external classification service over HTTP.
// The request is a multipart POST with a single `file` field; the response
// is JSON with `final_classification` (string or array of strings) and
// `important_terms`. The client enforces a bounded timeout per call.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Classifier = (*HTTPClient)(nil)

// NewHTTPClient builds the classifier client from config. Outgoing requests
// carry trace spans via the otelhttp transport.
func NewHTTPClient(cfg config.ClassifierConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Classify sends one document for classification. Every failure is returned
// as *Error; raw transport errors never escape to the caller.
func (c *HTTPClient) Classify(ctx context.Context, name, format string, content []byte) (*Result, error) {
	body, contentType, err := encodeMultipart(name, format, content)
	if err != nil {
		return nil, newError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", body)
	if err != nil {
		return nil, newError("create request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError("request classifier", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		cause := fmt.Sprintf("classifier status %s", resp.Status)
		if trimmed := strings.TrimSpace(string(msg)); trimmed != "" {
			cause = fmt.Sprintf("%s: %s", cause, trimmed)
		}
		return nil, newError(cause, nil)
	}

	var payload classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newError("decode response", err)
	}
	if len(payload.FinalClassification) == 0 {
		return nil, newError("empty classification in response", nil)
	}

	terms := payload.ImportantTerms
	if terms == nil {
		terms = []string{}
	}
	return &Result{
		Categories:     payload.FinalClassification,
		ImportantTerms: terms,
	}, nil
}

func encodeMultipart(name, format string, content []byte) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", format)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

type classifyResponse struct {
	FinalClassification categoryLabels `json:"final_classification"`
	ImportantTerms      []string       `json:"important_terms"`
}

// categoryLabels accepts both wire forms of final_classification: a single
// string (possibly comma-separated) or an array of strings. Either way the
// result is the ordered category sequence.
type categoryLabels []string

func (c *categoryLabels) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = splitLabels(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("final_classification must be string or array of strings")
	}
	out := make([]string, 0, len(many))
	for _, label := range many {
		if label = strings.TrimSpace(label); label != "" {
			out = append(out, label)
		}
	}
	*c = out
	return nil
}

func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
