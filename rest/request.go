package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Param is a single query parameter. Params are kept in a slice rather than
// a map so the encoded query preserves the order the caller supplied.
type Param struct {
	Key   string
	Value any
}

// Request describes one logical API call before it enters the pipeline.
type Request struct {
	Method string
	Path   string
	Query  []Param
	Body   any

	// Timeout overrides the client's per-attempt timeout when positive.
	Timeout time.Duration
}

// WithParam appends a query parameter and returns the request for chaining.
func (r Request) WithParam(key string, value any) Request {
	r.Query = append(r.Query, Param{Key: key, Value: value})
	return r
}

// encodeQuery renders the parameters in insertion order, dropping nil
// values. Zero values such as 0 and false are kept; only nil means "unset".
func encodeQuery(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(queryValue(p.Value)))
	}
	return b.String()
}

func queryValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
