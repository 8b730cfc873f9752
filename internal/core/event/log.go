package event

// Record is one sequenced entry. IDs start at 1 and are contiguous.
type Record[P any] struct {
	ID      uint64
	Tick    uint64
	Payload P
}

// Log is an append-only, sequenced event log retained for the life of a
// match. Emission order is append order; readers resume with Since.
type Log[P any] struct {
	records []Record[P]
	nextID  uint64
}

func NewLog[P any]() *Log[P] {
	return &Log[P]{
		records: make([]Record[P], 0, 256),
		nextID:  1,
	}
}

// Append assigns the next ID and stores the payload.
func (l *Log[P]) Append(tick uint64, payload P) Record[P] {
	r := Record[P]{ID: l.nextID, Tick: tick, Payload: payload}
	l.nextID++
	l.records = append(l.records, r)
	return r
}

// Since returns every record with ID > lastID in ascending order. The
// returned slice is a copy and can be kept by the caller.
func (l *Log[P]) Since(lastID uint64) []Record[P] {
	if lastID >= uint64(len(l.records)) {
		return nil
	}
	out := make([]Record[P], len(l.records)-int(lastID))
	copy(out, l.records[lastID:])
	return out
}

func (l *Log[P]) Len() int {
	return len(l.records)
}

// LastID is the ID of the newest record, or 0 for an empty log.
func (l *Log[P]) LastID() uint64 {
	return l.nextID - 1
}

// NextID is the ID the next Append will assign.
func (l *Log[P]) NextID() uint64 {
	return l.nextID
}
