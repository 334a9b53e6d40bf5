// Package directory is the portal's view of the remote member directory:
// a keyed record store queried by exact email and patched by record id.
//
// Three backends satisfy Directory: Airtable (the hosted table the portal
// started on), the self-hosted gRPC directory server, and an in-memory
// store for tests and demos.
package directory
