// Command reelintake runs the submission intake service and provides
// operator tooling for configuration and review.
package main
