// Package linekit is a client library for the LINE-style Messaging API,
// offered in two calling conventions: a blocking [Client] and a
// non-blocking [AsyncClient] whose methods return a [Call] promise.
//
// Both facades are synthesized from one versioned endpoint catalog
// (package catalog) and dispatch through one shared transport, so every
// endpoint, parameter check, and error mapping is identical between
// them; the only behavioral difference is the concurrency contract of
// the call itself.
//
// Errors surface as *synth.ValidationError (bad arguments, raised before
// any network I/O), *transport.NetworkError (transport failure, with a
// timeout/connection/protocol kind), *transport.APIError (server
// rejection, carrying the status and decoded error payload), and
// *dto.DecodeError (response body did not match its declared shape).
package linekit

// Version is the library release version, reported in the default
// User-Agent header. It is independent of the catalog version, which
// tracks the API surface snapshot.
const Version = "1.0.0"
