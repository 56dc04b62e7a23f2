package world

import "colonysim.ai/internal/protocol"

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64            `json:"tick"`
	Phase    Phase             `json:"phase"`
	Speed    float64           `json:"speed"`
	DeltaMs  float64           `json:"delta_ms"`
	Commands []RecordedCommand `json:"commands,omitempty"`
	// Ledger holds the new total of every resource that changed this tick.
	Ledger map[string]int `json:"ledger,omitempty"`
	Digest string         `json:"digest"`
}

type RecordedCommand struct {
	Cmd  protocol.Command `json:"cmd"`
	OK   bool             `json:"ok"`
	Code string           `json:"code,omitempty"`
}

// Audit actions.
const (
	AuditPlace      = "PLACE"
	AuditRemove     = "REMOVE"
	AuditAssign     = "ASSIGN"
	AuditUnattended = "UNATTENDED"
	AuditDeliver    = "DELIVER"
	AuditWithdraw   = "WITHDRAW"
	AuditNoPath     = "NO_PATH"
	AuditSiteLost   = "SITE_LOST"
)

type AuditEntry struct {
	Tick       uint64 `json:"tick"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	BuildingID string `json:"building_id,omitempty"`
	Building   string `json:"building,omitempty"`
	Pos        [2]int `json:"pos"`
	Resource   string `json:"resource,omitempty"`
	Count      int    `json:"count,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// CommandEnvelope carries one command into the world loop. Resp, when set,
// receives the result at the tick boundary; it should be buffered.
type CommandEnvelope struct {
	Cmd  protocol.Command
	Resp chan protocol.CommandResult
}
