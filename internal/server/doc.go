// Package server exposes the HTTP API: intake sessions for the multi-step
// form and the authenticated admin review surface.
package server
