package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Command kinds.
const (
	CmdPlaceBuilding  = "PLACE_BUILDING"
	CmdRemoveBuilding = "REMOVE_BUILDING"
	CmdSetSpeed       = "SET_SPEED"
	CmdPause          = "PAUSE"
	CmdResume         = "RESUME"
	CmdWithdraw       = "WITHDRAW"
)

// CMD (client -> server). Fields are used per kind; see the schema.
type Command struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	CmdID           string `json:"cmd_id,omitempty"`
	Kind            string `json:"kind"`

	Building string `json:"building,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`

	BuildingID string  `json:"building_id,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
	Resource   string  `json:"resource,omitempty"`
	Count      int     `json:"count,omitempty"`
}

// CMD_RESULT (server -> client).
type CommandResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	CmdID           string `json:"cmd_id,omitempty"`
	Tick            uint64 `json:"tick"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`

	BuildingID string `json:"building_id,omitempty"`
	WorkerID   string `json:"worker_id,omitempty"`
	Count      int    `json:"count,omitempty"`
}

//go:embed schemas/command.schema.json
var commandSchemaJSON string

var commandSchema = jsonschema.MustCompileString("command.schema.json", commandSchemaJSON)

// CommandSchema returns the raw JSON schema for CMD messages.
func CommandSchema() string { return commandSchemaJSON }

// DecodeCommand validates b against the command schema and decodes it.
func DecodeCommand(b []byte) (Command, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if err := commandSchema.Validate(doc); err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	var cmd Command
	if err := json.Unmarshal(b, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	return cmd, nil
}
