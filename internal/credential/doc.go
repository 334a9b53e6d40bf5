// Package credential implements the portal's one-way credential hashing.
//
// Every token is self-describing (algorithm, cost and salt travel with the
// digest), so a token produced by one process can be verified by any other
// regardless of which algorithm is configured as primary at the time.
//
// Verify never reports errors: a malformed token, an unsupported algorithm
// or an internal failure all read as "does not match".
package credential
