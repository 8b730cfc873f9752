package game

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Digest folds snapshots and events into one xxh3 hash. Two runs with the
// same seed and input timeline produce the same digest.
type Digest struct {
	h   *xxh3.Hasher
	buf []byte
}

func NewDigest() *Digest {
	return &Digest{h: xxh3.New(), buf: make([]byte, 0, 1024)}
}

func (d *Digest) AddSnapshot(s Snapshot) {
	d.buf = s.AppendCanonical(append(d.buf[:0], 'S'))
	d.h.Write(d.buf)
}

func (d *Digest) AddEvent(e Event) {
	d.buf = append(d.buf[:0], 'E')
	d.buf = binary.LittleEndian.AppendUint64(d.buf, e.ID)
	d.buf = binary.LittleEndian.AppendUint64(d.buf, e.Tick)
	d.buf = AppendString(d.buf, e.Payload.EventKind())
	d.buf = e.Payload.AppendCanonical(d.buf)
	d.h.Write(d.buf)
}

func (d *Digest) Sum64() uint64 {
	return d.h.Sum64()
}

// AppendString writes a length-prefixed string.
func AppendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

func AppendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func AppendInt(dst []byte, v int) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(int64(v)))
}
