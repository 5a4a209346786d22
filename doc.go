// Package auth implements the dual-credential authentication and
// authorization core for a content service (articles, comments, accounts).
//
// Credential scheme:
//   - Every account owns a long-lived opaque identity key, generated once at
//     registration. It is the durable bearer secret, equivalent to a
//     persistent session key.
//   - On top of it the service issues short-lived HS256 access tokens that
//     embed the account claims. Both travel together as a single combined
//     credential: "<identityKey> <accessToken>".
//
// Request pipeline:
//   - Auther.Authenticate resolves the combined credential into an Actor.
//     When the access token segment is missing, expired, or garbled, the
//     identity key alone authenticates the request and a fresh token is
//     reissued as a response side effect, so clients never re-login just
//     because a token aged out. middleware/authgate applies this per request.
//
// Authorization:
//   - Guard predicates (CanModifyOrDelete, CanRead) implement the
//     admin-or-owner rule over capability interfaces (Owned,
//     VisibilityControlled) shared by every owned resource type. Denials are
//     structured errors that map to 401 vs 403 at the HTTP boundary.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by Auther to describe
//     login, refresh, and logout events. Sinks run best-effort (errors are
//     logged) so you can forward to a database or queue without blocking
//     authentication.
package auth
