// Package repository translates domain intents into Overseerr API calls.
//
// Each operation builds one overseerr.Endpoint and hands it to an
// overseerr.Requester. Client errors pass through unchanged so callers can
// still inspect status codes; the only errors produced here are local
// contract violations (ErrInvalidOperation, ErrNotImplemented) raised before
// any I/O.
package repository
