// Package reports provides report upload, listing and assistant chat on
// top of the service client, with a local badger-backed cache so the
// most recent results stay readable offline.
//
// The cache is a convenience mirror, never a source of truth: it is
// refreshed on every successful fetch and consulted only when the caller
// asks for cached data explicitly.
package reports
