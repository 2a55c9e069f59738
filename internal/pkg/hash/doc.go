// Package hash hashes secrets that are stored and later compared.
//
// Bcrypt is used for passwords. HMACSHA256 is used for OTP codes: it is
// deterministic, so the digest can be looked up with an equality match.
package hash
