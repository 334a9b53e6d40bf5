// Package common contains shared constants and sentinel errors used across
// the member portal client and the directory server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// directory access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RoleMember is the only role a portal account can hold.
const RoleMember = "member"
