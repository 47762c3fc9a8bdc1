// Package overseerr provides an HTTP client for the Overseerr API.
//
// # Overview
//
// Every call is described by an Endpoint: a path, method, ordered query
// parameters, an optional body and an optional base URL override. The Client
// turns the endpoint into a request, enforces the 2xx contract and decodes
// the JSON response.
//
//	client, err := overseerr.NewClient("http://localhost:5055/api/v1", overseerr.WithAPIKey(key))
//	if err != nil {
//		return err
//	}
//
//	ep := overseerr.NewEndpoint("/request",
//		overseerr.WithQuery("take", "20"),
//		overseerr.WithQuery("filter", "pending"),
//	)
//	page, err := overseerr.Fetch[overseerr.ListResponse[overseerr.MediaRequest]](ctx, client, ep)
//
// # Files
//
//   - endpoint.go: immutable endpoint descriptor and its options
//   - client.go: request building, execution, status and decode handling
//   - errors.go: error taxonomy shared by repositories and controllers
//   - types.go, enums.go: API resources and their wire-level status codes
//
// # Request Handling
//
// All requests:
//   - Resolve the endpoint base (override or client default), append the path,
//     then append query parameters in the order given
//   - Send Content-Type and Accept set to application/json
//   - Send X-Api-Key when a key is configured
//   - Pass through a per-host circuit breaker that only counts transport failures
//
// # Error Handling
//
//   - ErrInvalidURL: the URL could not be composed; never retried
//   - *RequestFailedError: non-2xx status; the body is not decoded
//   - ErrDecodingFailed: 2xx body did not match the requested shape
//   - ErrUnknown: transport failure or a response without a status
//   - ErrInvalidOperation: rejected locally before any I/O
//
// Status enums decode unrecognized codes to their zero value so a single bad
// field never fails a whole list.
package overseerr
