// Package gamev1 defines the chesstactoe.v1.GameService wire contract: the
// request and response messages, a JSON codec for them, and the gRPC service
// descriptor with its client and server bindings.
//
// Messages travel as JSON under the "json" content-subtype. Clients built
// with NewGameServiceClient select it on every call.
package gamev1
