package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeInvalidSquare      = "INVALID_SQUARE"
	CodeInvalidCoordinates = "INVALID_COORDINATES"
	CodeInvalidMove        = "INVALID_MOVE"
	CodeGameOver           = "GAME_OVER"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeNotInGame          = "NOT_IN_GAME"
	CodeNotPlayer          = "NOT_PLAYER"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
)

var enUSMessages = map[Code]string{
	CodeInvalidFormat:      "Move or position {{if .Input}}{{.Input}} {{end}}is not well formed",
	CodeInvalidSquare:      "Square {{.Input}} is not on the board",
	CodeInvalidCoordinates: "Board {{.Board}} does not exist; choose a board from 0 to 8",
	CodeInvalidMove:        "Move {{.Input}} is not legal on board {{.Board}}",
	CodeGameOver:           "Board {{.Board}} is already decided",
	CodeInvalidArgument:    "{{.Field}} is required",
	CodeNotInGame:          "User needs to join a game first",
	CodeNotPlayer:          "You are not in this game",
	CodeNotYourTurn:        "It's not your turn",
	CodeNotFound:           "Lobby {{.Code}} was not found",
	CodeRateLimited:        "Too many requests; slow down",
}

var ptBRMessages = map[Code]string{
	CodeInvalidFormat:      "O lance ou posição {{if .Input}}{{.Input}} {{end}}está mal formado",
	CodeInvalidSquare:      "A casa {{.Input}} não está no tabuleiro",
	CodeInvalidCoordinates: "O tabuleiro {{.Board}} não existe; escolha um tabuleiro de 0 a 8",
	CodeInvalidMove:        "O lance {{.Input}} não é válido no tabuleiro {{.Board}}",
	CodeGameOver:           "O tabuleiro {{.Board}} já está decidido",
	CodeInvalidArgument:    "{{.Field}} é obrigatório",
	CodeNotInGame:          "É preciso entrar em uma partida primeiro",
	CodeNotPlayer:          "Você não está nesta partida",
	CodeNotYourTurn:        "Não é a sua vez",
	CodeNotFound:           "A sala {{.Code}} não foi encontrada",
	CodeRateLimited:        "Muitas requisições; aguarde um pouco",
}
