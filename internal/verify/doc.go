// Package verify models the identity-verification flows as explicit state
// machines: registration followed by one-time-code redemption, and
// password reset requested by email then confirmed via a mailed link.
//
// Both flows share the same shape: request a code or link, then redeem
// it. The pending context (email, or the reset link's token pair) lives
// only in memory. Losing it mid-flow means restarting the flow, which is
// deliberate: a verification step can never be replayed from persisted
// state.
//
// Failed submissions keep the flow in its pre-transition state so the
// user can retry; nothing here ever forces navigation away.
package verify
