package observerproto

// Version is the observer protocol version (separate from the command protocol).
const Version = "0.1"

// Message types.
const (
	TypeSubscribe = "SUBSCRIBE"
	TypeState     = "STATE"
	TypeGrid      = "GRID"
)

// Client -> Server. First message on the observer WS connection, and can be re-sent to update settings.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// EveryTicks overrides the server default STATE cadence (0 keeps it).
	EveryTicks int `json:"every_ticks,omitempty"`
	// IncludeGrid asks for a GRID message now and after every placement or removal.
	IncludeGrid bool `json:"include_grid,omitempty"`
	// GridEncoding is "U8_RLE_B64" (default) or "U8_ROWMAJOR_B64".
	GridEncoding string `json:"grid_encoding,omitempty"`
}

// HTTP response for GET /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string        `json:"protocol_version"`
	RunID           string        `json:"run_id"`
	Tick            uint64        `json:"tick"`
	Phase           string        `json:"phase"`
	WorldParams     WorldParams   `json:"world_params"`
	Buildings       []BuildingDef `json:"buildings"`
	Resources       []string      `json:"resources"`
	CatalogDigest   string        `json:"catalog_digest"`
}

type WorldParams struct {
	TickRateHz int       `json:"tick_rate_hz"`
	GridSize   int       `json:"grid_size"`
	CellSize   float64   `json:"cell_size"`
	GameSpeeds []float64 `json:"game_speeds"`
}

type BuildingDef struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Size       [2]int  `json:"size"`
	Placeable  bool    `json:"placeable"`
	Produces   string  `json:"produces,omitempty"`
	ProduceMs  float64 `json:"produce_ms,omitempty"`
	StorageCap int     `json:"storage_capacity,omitempty"`
}

// Server -> Client. Sent every N ticks.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	Phase string  `json:"phase"`
	Speed float64 `json:"speed"`

	Buildings  []BuildingState `json:"buildings"`
	Workers    []WorkerState   `json:"workers"`
	Ledger     map[string]int  `json:"ledger"`
	Storage    *StorageState   `json:"storage,omitempty"`
	Unattended []string        `json:"unattended,omitempty"`

	Audits []AuditEntry `json:"audits,omitempty"`
}

type BuildingState struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Pos    [2]int `json:"pos"`
	Size   [2]int `json:"size"`
	Worker string `json:"worker,omitempty"`

	Producing bool    `json:"producing,omitempty"`
	Ready     bool    `json:"ready,omitempty"`
	Progress  float64 `json:"progress,omitempty"`
}

type WorkerState struct {
	ID       string     `json:"id"`
	State    string     `json:"state"`
	Pos      [2]float64 `json:"pos"`
	Building string     `json:"building,omitempty"`
	Carrying string     `json:"carrying,omitempty"`
	Travel   string     `json:"travel"`
	Path     int        `json:"path_remaining,omitempty"`
}

type StorageState struct {
	ID       string         `json:"id"`
	Amount   int            `json:"amount"`
	Capacity int            `json:"capacity"`
	Contents map[string]int `json:"contents"`
}

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

// Server -> Client. Full occupancy map, one value per cell (0 walkable,
// 1 blocked), iterated for y in 0..size-1, for x in 0..size-1 (x fastest).
// "U8_ROWMAJOR_B64": base64 of one byte per cell.
// "U8_RLE_B64": base64 of (value, run_len) uvarint pairs.
type GridMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Size            int    `json:"size"`
	Encoding        string `json:"encoding"`
	Data            string `json:"data"`
}
