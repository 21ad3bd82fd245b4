package records

import (
	"hash/fnv"

	"github.com/joshuafuller/mdnscodec/internal/clock"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
)

// NameWriter is the subset of the outgoing packet writer a record needs to
// serialize its rdata: raw field writes plus compression-aware name writes.
// Defined here (not imported from the message package) so records never
// depends on message — message depends on records instead.
type NameWriter interface {
	WriteUint8(v byte)
	WriteUint16(v uint16)
	WriteUint32(v uint32)
	WriteBytes(b []byte)
	WriteCharacterString(s string) error
	WriteName(name string) error
}

// Record is the common capability of every resource-record variant.
type Record interface {
	Header() *RecordHeader
	// WriteRData serializes only the type-specific payload; the caller
	// (the outgoing builder) has already written name/type/class/ttl and a
	// placeholder rdlength, and patches that length in after this returns.
	WriteRData(w NameWriter) error
	// Equal compares rdata only; callers compare Header().Entry separately.
	Equal(other Record) bool
	String() string
}

// RecordHeader carries the entry triple plus TTL deadline bookkeeping
// shared by every variant.
type RecordHeader struct {
	Entry
	TTL     uint32 // seconds
	Created int64  // milliseconds, from the injected Clock

	fullExpiry  int64
	staleAt     int64
	recentUntil int64
}

// NewRecordHeader stamps Created from clk and precomputes the three TTL
// deadlines. ttl in seconds, per RFC 1035/6762.
func NewRecordHeader(entry Entry, ttl uint32, clk clock.Clock) RecordHeader {
	h := RecordHeader{Entry: entry, TTL: ttl, Created: clk.NowMillis()}
	h.recomputeDeadlines()
	return h
}

func (h *RecordHeader) recomputeDeadlines() {
	h.fullExpiry = h.deadlineAt(protocol.PercentExpireFull)
	h.staleAt = h.deadlineAt(protocol.PercentExpireStale)
	h.recentUntil = h.deadlineAt(protocol.PercentRecent)
}

func (h *RecordHeader) deadlineAt(percent int64) int64 {
	return h.Created + percent*int64(h.TTL)*10
}

// ResetTTL adopts another record's created timestamp and TTL, as happens
// when a fresher copy of the same record is observed, and recomputes the
// cached deadlines.
func (h *RecordHeader) ResetTTL(other *RecordHeader) {
	h.Created = other.Created
	h.TTL = other.TTL
	h.recomputeDeadlines()
}

// IsExpired reports whether nowMillis is at or past the full-TTL deadline.
func (h *RecordHeader) IsExpired(nowMillis int64) bool {
	return nowMillis >= h.fullExpiry
}

// IsStale reports whether nowMillis is at or past the stale-time deadline.
func (h *RecordHeader) IsStale(nowMillis int64) bool {
	return nowMillis >= h.staleAt
}

// IsRecent reports whether nowMillis is still within the recent-time
// window (i.e. the record was created too recently to warrant a refresh).
func (h *RecordHeader) IsRecent(nowMillis int64) bool {
	return nowMillis < h.recentUntil
}

// RemainingTTL returns the TTL in whole seconds as of nowMillis, floored at
// zero. nowMillis == 0 is reserved by callers to mean "use the raw TTL".
func (h *RecordHeader) RemainingTTL(nowMillis int64) uint32 {
	if nowMillis == 0 {
		return h.TTL
	}
	remainingMs := h.fullExpiry - nowMillis
	if remainingMs <= 0 {
		return 0
	}
	return uint32(remainingMs / 1000) //nolint:gosec // bounded by TTL, which is itself a uint32 of seconds
}

// SuppressedBy implements RFC 6762 §7.1 known-answer suppression: a record
// is suppressed when others contains a matching (key, type, class, rdata)
// entry whose own TTL is more than half of self's.
func SuppressedBy(self Record, others []Record) bool {
	selfHdr := self.Header()
	for _, o := range others {
		oHdr := o.Header()
		if !sameEntry(selfHdr.Entry, oHdr.Entry) {
			continue
		}
		if !self.Equal(o) {
			continue
		}
		if oHdr.TTL > selfHdr.TTL/2 {
			return true
		}
	}
	return false
}

// Hash derives a stable hash from the entry triple and a variant-supplied
// rdata fingerprint, suitable for cache indexing.
func Hash(e Entry, rdata []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(e.Key))
	_, _ = h.Write([]byte{byte(e.Type >> 8), byte(e.Type)})
	_, _ = h.Write([]byte{byte(e.Class >> 8), byte(e.Class)})
	_, _ = h.Write(rdata)
	return h.Sum64()
}
