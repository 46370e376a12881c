// Package server hosts the admin console over HTTP.
//
// Every path outside the API and asset prefixes goes through the route
// resolver. Matches render the SPA shell with the resolved view, and
// redirects answer 302 with the final href. Live clients navigate over a
// WebSocket where each connection owns its own history stack.
package server
