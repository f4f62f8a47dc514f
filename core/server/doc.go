// Package server holds the HTTP server configuration.
//
// The serve command exposes a read-only view of the layout catalog. This
// package defines its port, API key and timeouts; core/config embeds it.
package server
