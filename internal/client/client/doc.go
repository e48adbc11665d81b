// Package client talks to the nihongo HTTP API and bootstraps the local
// sqlite database.
//
// Errors: transport failures wrap ErrUnavailable; non-2xx answers are
// returned as *APIError carrying the server's message verbatim, and a 401
// also matches ErrUnauthorized with errors.Is.
package client
