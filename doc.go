// Package guard resolves inbound request credentials to a verified identity
// and assigns one of three escalating trust tiers.
//
// Credential transports:
//   - Two interchangeable encodings carry the same Claims payload: an
//     integrity-protected session cookie (AES-GCM + HMAC envelope) and an
//     HS512-pinned bearer token. ClaimsCodec owns both wire forms; decode
//     fails closed on any tamper or signature problem.
//   - CredentialResolver picks between the transports (cookie wins when both
//     are present) and reports cookie side effects as data instead of doing
//     I/O, so resolution is testable without a live request.
//
// Trust tiers:
//   - TierBasic accepts any structurally valid, unexpired Claims.
//     TierAuthenticated additionally requires a username, TierRoot
//     additionally requires membership in the configured root team.
//     Escalation is monotonic: proving a higher tier re-derives every
//     lower one.
//   - A failed escalation is soft (ErrNotApplicable) so routes can fall back
//     to anonymous handling; repository failures surface as internal faults,
//     never as an authentication problem.
//
// Login flows:
//   - LoginFlows issues the initial Claims either from a password check
//     (bcrypt with a server-wide pepper, one generic failure for unknown
//     email and bad password) or from a provider-verified profile with
//     find-or-create semantics that tolerate concurrent first logins.
package guard
