package overseerr

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Method is the HTTP verb of an endpoint.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// QueryParam is one name/value pair. Order is significant and preserved.
type QueryParam struct {
	Name  string
	Value string
}

// Endpoint describes one HTTP call. It is a value: options copy their inputs
// and accessors return copies, so an Endpoint can be reused across calls.
type Endpoint struct {
	path    string
	method  Method
	query   []QueryParam
	body    []byte
	baseURL string
	err     error
}

// EndpointOption customizes an Endpoint under construction.
type EndpointOption func(*Endpoint)

// NewEndpoint builds an endpoint for path. Without options it is a GET
// against the client's base URL.
func NewEndpoint(path string, opts ...EndpointOption) Endpoint {
	ep := Endpoint{path: path, method: MethodGet}
	for _, opt := range opts {
		opt(&ep)
	}
	return ep
}

// WithMethod sets the HTTP method.
func WithMethod(m Method) EndpointOption {
	return func(ep *Endpoint) { ep.method = m }
}

// WithQuery appends a query parameter.
func WithQuery(name, value string) EndpointOption {
	return func(ep *Endpoint) {
		ep.query = append(ep.query, QueryParam{Name: name, Value: value})
	}
}

// WithQueryParams appends query parameters in the given order.
func WithQueryParams(params ...QueryParam) EndpointOption {
	return func(ep *Endpoint) {
		ep.query = append(ep.query, params...)
	}
}

// WithBody attaches raw body bytes. The slice is copied.
func WithBody(body []byte) EndpointOption {
	return func(ep *Endpoint) {
		if body == nil {
			ep.body = nil
			return
		}
		ep.body = append([]byte(nil), body...)
	}
}

// WithJSONBody encodes v as the request body. Encoding errors surface when
// the endpoint is executed.
func WithJSONBody(v any) EndpointOption {
	return func(ep *Endpoint) {
		data, err := json.Marshal(v)
		if err != nil {
			ep.err = err
			return
		}
		ep.body = data
	}
}

// WithBaseURL targets a different host than the client's base URL.
func WithBaseURL(base string) EndpointOption {
	return func(ep *Endpoint) { ep.baseURL = strings.TrimSpace(base) }
}

// Path returns the endpoint path.
func (e Endpoint) Path() string { return e.path }

// Method returns the HTTP method.
func (e Endpoint) Method() Method {
	if e.method == "" {
		return MethodGet
	}
	return e.method
}

// Query returns a copy of the query parameters.
func (e Endpoint) Query() []QueryParam {
	if len(e.query) == 0 {
		return nil
	}
	return append([]QueryParam(nil), e.query...)
}

// Body returns a copy of the body, or nil when none is attached.
func (e Endpoint) Body() []byte {
	if e.body == nil {
		return nil
	}
	return append([]byte(nil), e.body...)
}

// BaseURL returns the override base, or "" for the client default.
func (e Endpoint) BaseURL() string { return e.baseURL }

// String renders the endpoint for logs.
func (e Endpoint) String() string {
	return string(e.Method()) + " " + e.path
}
