// Package auth stores the bearer credential used for every backend call
// and inspects it for expiry.
//
// The credential is issued by the backend's sign-in endpoint and is
// opaque to this client; it is never verified locally. Inspect parses
// the JWT without signature verification only to surface the subject
// and expiry, so the CLI can say "token expired, sign in again" instead
// of failing every request with a 401.
//
// Lookup order follows the usual convention: the MEETMIND_TOKEN
// environment variable wins, then the token file under the user config
// directory.
package auth
