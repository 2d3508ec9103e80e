// Package server composes the game service into a runnable process.
//
// It opens the configured session store, restores saved games into the
// directory, and serves the gRPC API next to an HTTP listener for health,
// metrics and the WebSocket gateway.
package server
