// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Move and position errors
	CodeInvalidFormat      Code = "INVALID_FORMAT"
	CodeInvalidSquare      Code = "INVALID_SQUARE"
	CodeInvalidCoordinates Code = "INVALID_COORDINATES"
	CodeInvalidMove        Code = "INVALID_MOVE"
	CodeGameOver           Code = "GAME_OVER"

	// Request errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Session errors
	CodeNotInGame   Code = "NOT_IN_GAME"
	CodeNotPlayer   Code = "NOT_PLAYER"
	CodeNotYourTurn Code = "NOT_YOUR_TURN"

	// Lobby and storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Transport errors
	CodeRateLimited Code = "RATE_LIMITED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed input
	case CodeInvalidFormat,
		CodeInvalidSquare,
		CodeInvalidCoordinates,
		CodeInvalidArgument:
		return codes.InvalidArgument

	// FailedPrecondition - board state doesn't allow the move
	case CodeInvalidMove,
		CodeGameOver:
		return codes.FailedPrecondition

	// PermissionDenied - caller may not act on the session
	case CodeNotInGame,
		CodeNotPlayer,
		CodeNotYourTurn:
		return codes.PermissionDenied

	case CodeNotFound:
		return codes.NotFound

	case CodeRateLimited:
		return codes.ResourceExhausted

	default:
		return codes.Internal
	}
}
