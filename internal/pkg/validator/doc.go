// Package validator checks request and use case input structs.
//
// Use cases depend on the Validator interface. V10Validator is the
// go-playground/validator implementation with English messages.
package validator
