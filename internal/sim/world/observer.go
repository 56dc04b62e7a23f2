package world

import (
	"encoding/json"

	"colonysim.ai/internal/observerproto"
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/encoding"
	"colonysim.ai/internal/sim/tuning"
)

type ObserverJoinRequest struct {
	SessionID    string
	Out          chan []byte
	EveryTicks   int
	IncludeGrid  bool
	GridEncoding string // encoding.RLE when empty
}

type ObserverSubscribeRequest struct {
	SessionID    string
	EveryTicks   int
	IncludeGrid  bool
	GridEncoding string
}

type observerClient struct {
	id          string
	out         chan []byte
	every       uint64
	includeGrid bool
	gridEnc     string

	// Set only once a GRID frame is queued on out.
	gridSent    bool
	gridVersion uint64

	// Audits not yet carried by a queued STATE frame.
	audits []observerproto.AuditEntry

	statesSkipped uint64
}

const maxObserverAudits = 256

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	if req.SessionID == "" || req.Out == nil {
		return
	}
	// Replace existing session id if any.
	if old := w.observers[req.SessionID]; old != nil {
		close(old.out)
	}
	w.observers[req.SessionID] = &observerClient{
		id:          req.SessionID,
		out:         req.Out,
		every:       w.observerEvery(req.EveryTicks),
		includeGrid: req.IncludeGrid,
		gridEnc:     gridEncoding(req.GridEncoding),
	}
}

func (w *World) handleObserverSubscribe(req ObserverSubscribeRequest) {
	c := w.observers[req.SessionID]
	if c == nil {
		return
	}
	c.every = w.observerEvery(req.EveryTicks)
	enc := gridEncoding(req.GridEncoding)
	if req.IncludeGrid && (!c.includeGrid || enc != c.gridEnc) {
		c.gridSent = false
	}
	c.includeGrid = req.IncludeGrid
	c.gridEnc = enc
}

func (w *World) handleObserverLeave(id string) {
	c := w.observers[id]
	if c == nil {
		return
	}
	close(c.out)
	delete(w.observers, id)
}

func gridEncoding(enc string) string {
	if encoding.Supported(enc) {
		return enc
	}
	return encoding.RLE
}

func (w *World) observerEvery(n int) uint64 {
	if n <= 0 {
		n = w.tn.Observer.StateEveryTicks
	}
	if n <= 0 {
		n = 1
	}
	return uint64(n)
}

func (w *World) stepObservers(nowTick uint64) {
	if len(w.observers) == 0 {
		return
	}

	audits := make([]observerproto.AuditEntry, 0, len(w.audits))
	for _, a := range w.audits {
		audits = append(audits, observerproto.AuditEntry(a))
	}

	var gridMsgs map[string][]byte
	for _, c := range w.observers {
		c.audits = append(c.audits, audits...)
		if over := len(c.audits) - maxObserverAudits; over > 0 {
			c.audits = c.audits[over:]
		}

		if c.includeGrid && (!c.gridSent || c.gridVersion != w.gridVersion) {
			msg, ok := gridMsgs[c.gridEnc]
			if !ok {
				if gridMsgs == nil {
					gridMsgs = map[string][]byte{}
				}
				msg = w.encodeGrid(nowTick, c.gridEnc)
				gridMsgs[c.gridEnc] = msg
			}
			if trySend(c.out, msg) {
				c.gridSent = true
				c.gridVersion = w.gridVersion
			}
		}

		if nowTick%c.every != 0 {
			continue
		}
		// Queued frames are never evicted: a full buffer skips this STATE
		// and its audits ride on the next one that fits.
		if len(c.out) == cap(c.out) {
			c.statesSkipped++
			continue
		}
		msg := w.BuildState(nowTick)
		msg.Audits = c.audits
		b, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if trySend(c.out, b) {
			c.audits = nil
		} else {
			c.statesSkipped++
		}
	}
}

func (w *World) observerStatesSkipped() uint64 {
	var n uint64
	for _, c := range w.observers {
		n += c.statesSkipped
	}
	return n
}

// BuildState renders the current colony as an observer STATE frame.
func (w *World) BuildState(nowTick uint64) observerproto.StateMsg {
	msg := observerproto.StateMsg{
		Type:            observerproto.TypeState,
		ProtocolVersion: observerproto.Version,
		Tick:            nowTick,
		Phase:           string(w.game.Phase()),
		Speed:           w.speed,
		Ledger:          map[string]int{},
		Unattended:      w.workers.Unattended(),
	}
	for r, n := range w.ledger.All() {
		msg.Ledger[string(r)] = n
	}

	for _, b := range w.buildings.All() {
		bs := observerproto.BuildingState{
			ID:   b.ID,
			Type: string(b.Type),
			Pos:  [2]int{b.GridX, b.GridY},
			Size: [2]int{b.Width, b.Height},
		}
		if p := b.Production; p != nil {
			bs.Worker = p.AssignedWorker()
			bs.Producing = p.IsProducing()
			bs.Ready = p.HasResourceReady()
			bs.Progress = p.Progress()
		}
		msg.Buildings = append(msg.Buildings, bs)
	}

	if st := w.buildings.Storage(); st != nil && st.Storage != nil {
		contents := map[string]int{}
		for r, n := range st.Storage.Contents() {
			contents[string(r)] = n
		}
		msg.Storage = &observerproto.StorageState{
			ID:       st.ID,
			Amount:   st.Storage.CurrentAmount(),
			Capacity: st.Storage.MaxCapacity,
			Contents: contents,
		}
	}

	for _, wk := range w.workers.Workers() {
		pos := wk.Pos()
		ws := observerproto.WorkerState{
			ID:     wk.ID,
			State:  string(wk.State()),
			Pos:    [2]float64{pos.X, pos.Y},
			Travel: wk.TravelStatus(),
			Path:   len(wk.RemainingPath()),
		}
		if site := wk.Site(); site != nil {
			ws.Building = site.BuildingID()
		}
		if r, ok := wk.Carried(); ok {
			ws.Carrying = string(r)
		}
		msg.Workers = append(msg.Workers, ws)
	}
	return msg
}

func (w *World) encodeGrid(nowTick uint64, enc string) []byte {
	data, err := encoding.EncodeGrid(enc, w.grid.Cells())
	if err != nil {
		return nil
	}
	b, _ := json.Marshal(observerproto.GridMsg{
		Type:            observerproto.TypeGrid,
		ProtocolVersion: observerproto.Version,
		Tick:            nowTick,
		Size:            w.grid.Size(),
		Encoding:        enc,
		Data:            data,
	})
	return b
}

// Bootstrap describes the run for observers before they subscribe. It reads
// only immutable config and published metrics, so it is safe to call from
// any goroutine.
func (w *World) Bootstrap() observerproto.BootstrapResponse {
	m := w.Metrics()
	return bootstrapResponse(w.cfg.RunID, m, w.tn, w.catalogs)
}

func bootstrapResponse(runID string, m WorldMetrics, tn tuning.Tuning, cats *catalogs.Catalogs) observerproto.BootstrapResponse {
	resp := observerproto.BootstrapResponse{
		ProtocolVersion: observerproto.Version,
		RunID:           runID,
		Tick:            m.Tick,
		Phase:           m.Phase,
		WorldParams: observerproto.WorldParams{
			TickRateHz: tn.TickRateHz,
			GridSize:   tn.GridSize,
			CellSize:   tn.CellSize,
			GameSpeeds: append([]float64(nil), tn.GameSpeeds...),
		},
		Resources:     append([]string(nil), cats.Resources.Palette...),
		CatalogDigest: cats.Buildings.Digest,
	}
	for _, typ := range cats.Buildings.Types {
		def := cats.Buildings.ByType[typ]
		bd := observerproto.BuildingDef{
			Type:       def.Type,
			Name:       def.Name,
			Size:       [2]int{def.Width, def.Height},
			Placeable:  def.Placeable,
			StorageCap: def.StorageCapacity,
		}
		if p := def.Production; p != nil {
			bd.Produces = p.Resource
			bd.ProduceMs = p.TimeMs
		}
		resp.Buildings = append(resp.Buildings, bd)
	}
	return resp
}
