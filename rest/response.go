package rest

import "encoding/json"

// Envelope holds one HTTP attempt's outcome before classification.
type Envelope struct {
	StatusCode int
	Body       string
}

// OK reports whether the status code is in the 2xx range.
func (e Envelope) OK() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// JSON decodes the body into a loose map. An empty body decodes to an empty
// map; a non-empty body that is not valid JSON is preserved under "error"
// so callers never lose the server's text.
func (e Envelope) JSON() map[string]any {
	if e.Body == "" {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(e.Body), &out); err != nil || out == nil {
		return map[string]any{"error": e.Body}
	}
	return out
}
