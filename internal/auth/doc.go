// Package auth issues and validates admin session tokens for the review
// surface.
package auth
