// Package timeouts defines timeout constants shared by the game server and
// its clients.
package timeouts

import "time"

// GRPCRequest caps a single unary call such as MovePiece.
const GRPCRequest = 2 * time.Second

// HealthWait caps how long a client keeps polling the health service.
const HealthWait = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
