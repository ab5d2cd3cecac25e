// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting every catalog endpoint.
//   - rayid: assigns a Request ID (RayID) to every request, stores it in the context
//     and echoes it in the response headers for tracing.
package middleware
