// Package tokenauth provides the authentication boundary for a small JSON
// API: signed, expiring bearer tokens minted on login, a verification
// middleware that gates protected routes, and the authorization decision
// that binds a verified identity to the single profile it may mutate.
//
// Token issuance and verification:
//   - TokenService signs HS256 JWTs with a process-held symmetric key and
//     validates inbound tokens against the same key. The signing method is
//     pinned; tokens asserting any other algorithm are rejected. Expired,
//     malformed, and badly signed tokens fail with distinct error values so
//     callers can log and test each case, even where the client-facing
//     message intentionally collapses malformed and bad-signature into one.
//
// Stores:
//   - IdentityStore is the seam between the auth core and persistence. The
//     package ships an in-memory store with fixture seeding and a Bun-backed
//     store so the persistence mechanism can be swapped without touching the
//     core. The secret field never leaves a store: responses carry the
//     sanitized Profile projection only.
//
// Principal passing:
//   - The middleware in middleware/jwtware attaches validated claims to the
//     router locals and, via a context enricher, to the request's standard
//     context. Handlers resolve the acting identity from those claims and
//     never from client-supplied identifiers.
package tokenauth
