package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// World routing/state.
	ErrWorldBusy   = "E_WORLD_BUSY"
	ErrNotPlaying  = "E_NOT_PLAYING"
	ErrWorldClosed = "E_WORLD_CLOSED"
	ErrRateLimited = "E_RATE_LIMITED"

	// Command layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrUnknownType   = "E_UNKNOWN_TYPE"
	ErrNotPlaceable  = "E_NOT_PLACEABLE"
	ErrBlocked       = "E_BLOCKED"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrWorldBusy:       {},
	ErrNotPlaying:      {},
	ErrWorldClosed:     {},
	ErrRateLimited:     {},
	ErrBadRequest:      {},
	ErrUnknownType:     {},
	ErrNotPlaceable:    {},
	ErrBlocked:         {},
	ErrInvalidTarget:   {},
	ErrNoResource:      {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
