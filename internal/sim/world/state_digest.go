package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"colonysim.ai/internal/sim/ledger"
)

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

// stateDigest hashes everything that influences future ticks. Observers,
// loggers and the run id are excluded so replays of the same commands
// produce the same digests.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	h.Write([]byte(w.game.Phase()))
	digestWriteF64(h, &tmp, w.speed)

	h.Write(w.grid.Cells())

	for _, b := range w.buildings.All() {
		h.Write([]byte(b.ID))
		h.Write([]byte(b.Type))
		digestWriteI64(h, &tmp, int64(b.GridX))
		digestWriteI64(h, &tmp, int64(b.GridY))
		if p := b.Production; p != nil {
			digestWriteF64(h, &tmp, p.ElapsedMs())
			h.Write([]byte{boolByte(p.IsProducing()), boolByte(p.HasResourceReady())})
			h.Write([]byte(p.AssignedWorker()))
		}
		if s := b.Storage; s != nil {
			digestWriteU64(h, &tmp, uint64(s.CurrentAmount()))
			contents := s.Contents()
			keys := make([]ledger.Resource, 0, len(contents))
			for r := range contents {
				keys = append(keys, r)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			for _, k := range keys {
				h.Write([]byte(k))
				digestWriteU64(h, &tmp, uint64(contents[k]))
			}
		}
	}

	for _, wk := range w.workers.Workers() {
		h.Write([]byte(wk.ID))
		h.Write([]byte(wk.State()))
		pos := wk.Pos()
		digestWriteF64(h, &tmp, pos.X)
		digestWriteF64(h, &tmp, pos.Y)
		if r, ok := wk.Carried(); ok {
			h.Write([]byte(r))
		}
		h.Write([]byte(wk.TravelStatus()))
		digestWriteU64(h, &tmp, uint64(len(wk.RemainingPath())))
	}

	for _, r := range w.ledger.Keys() {
		h.Write([]byte(r))
		digestWriteI64(h, &tmp, int64(w.ledger.Get(r)))
	}
	digestWriteU64(h, &tmp, uint64(w.paths.Pending()))

	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
