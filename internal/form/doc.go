// Package form defines the intake form snapshot and the pure, step-ordered
// validation rules applied to it.
package form
