// Package token issues and verifies HMAC-signed session tokens.
//
// Sessions use an access/refresh pair. The refresh token can only mint
// new pairs and the access token can only authenticate requests; the
// "typ" claim keeps the two from being swapped.
package token
