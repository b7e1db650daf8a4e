// Package common contains shared constants and sentinel errors used across
// CartKeeper components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound requests to the cart API.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix prefixes the token value in the Authorization header.
const BearerPrefix = "Bearer "

// SyncIDHeaderName carries the client-generated sync id on cart sync
// requests so the server can deduplicate a retried merge.
const SyncIDHeaderName = "X-Sync-Id"
