// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly.
// Tests drive expiry with a Manual clock.
package clock
