// Package session owns the authentication lifecycle for the Vitalis
// client.
//
// The credential pair issued at login lives in a sealed file store; the
// Controller is its only writer. Session state is never stored directly:
// it is derived from credential presence, optimistically on startup (a
// stored token may have expired server-side; the first authenticated
// call's 401 is the real validity check).
//
// The Guard gates navigation between views: protected views require an
// authenticated session, everything else is reachable anonymously.
package session
