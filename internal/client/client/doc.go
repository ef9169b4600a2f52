// Package client contains the transport side of the watch-list CLI.
//
// # Overview
//
// The package provides:
//  1. The Store contract the tracker talks to: Authenticate, Logout,
//     ListItems, InsertItem, DeleteItems and Close. Every call answers with a
//     models.Envelope; a non-nil error means the request never got a reply.
//  2. A gRPC implementation (see GRPCClient) that keeps the access token
//     issued by Authenticate, injects it through a unary interceptor and maps
//     codes.Unauthenticated to an envelope with the auth_required code.
//
// # Error Handling
//
// Transport failures are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrTransport.
package client
