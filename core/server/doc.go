// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from Config: listen address, request read
// timeout and the API key enforced by the auth middleware.
package server
