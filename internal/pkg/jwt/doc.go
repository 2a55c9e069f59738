// Package jwt issues and verifies the HS512 access tokens used by the HTTP API
// and moves verified claims through request contexts.
package jwt
