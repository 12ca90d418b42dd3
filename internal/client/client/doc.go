// Package client is the typed HTTP client of the NoteKeeper API used by the
// CLI.
//
// # Overview
//
// The Client interface lists every API operation; RESTClient implements it
// over net/http with JSON bodies and a bearer session token set through
// SetToken.
//
// # Error Handling
//
// Non-2xx answers become *APIError carrying the status and the server's
// message. *APIError unwraps to ErrUnauthorized (401) and ErrNotFound (404);
// transport failures wrap ErrUnavailable. Match them with errors.Is.
package client
