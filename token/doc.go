// Package token issues the ID/Access/Refresh token triple returned on
// successful authentication.
//
// Tokens are signed JWTs. Ed25519 is the default so relying parties verify
// tokens with the public key alone; HS256 is available for harnesses that
// want a shared secret. Issuance is deterministic: the caller supplies the
// clock reading, signatures are deterministic per method, and token ids are
// derived rather than random. Two calls with identical inputs produce
// byte-identical tokens, which keeps client test suites reproducible.
package token
