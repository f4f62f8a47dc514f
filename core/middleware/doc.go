// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the catalog endpoints.
//   - rayid: assigns a request ID (RayID) to every request, stores it in the
//     context for logger.WithRayID and echoes it in the response headers.
package middleware
