package message

import (
	"github.com/joshuafuller/mdnscodec/internal/logging"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
	"github.com/joshuafuller/mdnscodec/internal/records"
)

// pendingAnswer pairs an answer-section record with the reference time used
// to compute its remaining TTL on the wire; now == 0 means "write the raw,
// nominal TTL" rather than a computed remainder.
type pendingAnswer struct {
	rec records.Record
	now int64
}

// Outgoing assembles questions and records into one or more size-bounded
// mDNS datagrams. It is populated via the Add* methods and finalized
// exactly once by Packets.
type Outgoing struct {
	Flags     uint16
	Multicast bool
	ID        uint16

	questions   []records.Question
	answers     []pendingAnswer
	authorities []records.Record
	additionals []records.Record

	finished bool
	packets  [][]byte

	log logging.Logger
}

// NewOutgoing creates an empty outgoing message. log receives a warning if
// assembly ever stalls on an oversize element; pass logging.Nop{} to
// discard it.
func NewOutgoing(flags uint16, multicast bool, id uint16, log logging.Logger) *Outgoing {
	if log == nil {
		log = logging.Nop{}
	}
	return &Outgoing{Flags: flags, Multicast: multicast, ID: id, log: log}
}

func (o *Outgoing) AddQuestion(q records.Question) {
	o.questions = append(o.questions, q)
}

// AddAnswer appends rec as an answer at the raw TTL, unless incoming
// already carries a fresh-enough copy of it (RFC 6762 §7.1 known-answer
// suppression), in which case the answer is silently dropped.
func (o *Outgoing) AddAnswer(incoming *Incoming, rec records.Record) {
	if incoming != nil && records.SuppressedBy(rec, incoming.Answers) {
		return
	}
	o.answers = append(o.answers, pendingAnswer{rec: rec, now: 0})
}

// AddAnswerAtTime appends rec as an answer with its TTL computed relative
// to now. A nil record or one already expired as of now is a no-op.
func (o *Outgoing) AddAnswerAtTime(rec records.Record, now int64) {
	if rec == nil {
		return
	}
	if now != 0 && rec.Header().IsExpired(now) {
		return
	}
	o.answers = append(o.answers, pendingAnswer{rec: rec, now: now})
}

func (o *Outgoing) AddAuthoritativeAnswer(rec records.Record) {
	if rec == nil {
		return
	}
	o.authorities = append(o.authorities, rec)
}

func (o *Outgoing) AddAdditionalAnswer(rec records.Record) {
	if rec == nil {
		return
	}
	o.additionals = append(o.additionals, rec)
}

// AddQuestionOrOneCache consults cache for a single matching record; on a
// hit it is attached as an answer instead of asking the question at all.
func (o *Outgoing) AddQuestionOrOneCache(cache records.Cache, now int64, name string, typ uint16, class uint16) {
	if hit := cache.GetByDetails(name, typ, class); hit != nil {
		o.AddAnswerAtTime(hit, now)
		return
	}
	o.AddQuestion(records.NewQuestion(name, typ, class))
}

// AddQuestionOrAllCache is AddQuestionOrOneCache's multi-answer counterpart,
// used where more than one cached record may satisfy the question (e.g.
// multiple AAAA addresses for a host).
func (o *Outgoing) AddQuestionOrAllCache(cache records.Cache, now int64, name string, typ uint16, class uint16) {
	hits := cache.GetAllByDetails(name, typ, class)
	if len(hits) == 0 {
		o.AddQuestion(records.NewQuestion(name, typ, class))
		return
	}
	for _, h := range hits {
		o.AddAnswerAtTime(h, now)
	}
}

func (o *Outgoing) isQuery() bool {
	return o.Flags&protocol.FlagQR == 0
}

// Packets finalizes the message, serializing it into one or more datagrams
// no larger than protocol.MaxMsgAbsolute (the first record of a fresh
// packet may use that ceiling; everything after is bounded by the tighter
// protocol.MaxMsgTypical). Calling it again after the first time returns
// the same slice without re-assembling anything.
//
// The only error this returns is NamePartTooLongError, surfaced from a
// record or question whose name or rdata a caller constructed with a label
// or character-string over the wire limit — that is a caller bug, not a
// recoverable condition, so assembly stops immediately rather than trying
// to roll it back.
func (o *Outgoing) Packets() ([][]byte, error) {
	if o.finished {
		return o.packets, nil
	}

	var qo, ao, uo, do int

	for {
		w := NewWriter()
		allowLong := true
		var qWritten, aWritten, uWritten, dWritten int

		for qo+qWritten < len(o.questions) {
			cp := w.Checkpoint()
			if err := writeQuestion(w, o.questions[qo+qWritten], o.Multicast); err != nil {
				return nil, err
			}
			if overflowed(w, &allowLong) {
				w.Rollback(cp)
				break
			}
			qWritten++
		}

		for ao+aWritten < len(o.answers) {
			cp := w.Checkpoint()
			pa := o.answers[ao+aWritten]
			if err := writeRecord(w, pa.rec, pa.now, o.Multicast); err != nil {
				return nil, err
			}
			if overflowed(w, &allowLong) {
				w.Rollback(cp)
				break
			}
			aWritten++
		}

		for uo+uWritten < len(o.authorities) {
			cp := w.Checkpoint()
			if err := writeRecord(w, o.authorities[uo+uWritten], 0, o.Multicast); err != nil {
				return nil, err
			}
			if overflowed(w, &allowLong) {
				w.Rollback(cp)
				break
			}
			uWritten++
		}

		for do+dWritten < len(o.additionals) {
			cp := w.Checkpoint()
			if err := writeRecord(w, o.additionals[do+dWritten], 0, o.Multicast); err != nil {
				return nil, err
			}
			if overflowed(w, &allowLong) {
				w.Rollback(cp)
				break
			}
			dWritten++
		}

		newQo, newAo, newUo, newDo := qo+qWritten, ao+aWritten, uo+uWritten, do+dWritten
		remaining := newQo < len(o.questions) || newAo < len(o.answers) ||
			newUo < len(o.authorities) || newDo < len(o.additionals)
		progressed := qWritten > 0 || aWritten > 0 || uWritten > 0 || dWritten > 0

		if !progressed && remaining {
			o.log.Warn("outgoing packet assembly stalled on an oversize element", logging.Field{Key: "questions_remaining", Value: len(o.questions) - newQo})
			break
		}

		w.PrependUint16(uint16(dWritten)) //nolint:gosec // bounded by section length, fits uint16
		w.PrependUint16(uint16(uWritten)) //nolint:gosec
		w.PrependUint16(uint16(aWritten)) //nolint:gosec
		w.PrependUint16(uint16(qWritten)) //nolint:gosec

		flags := o.Flags
		if o.isQuery() && remaining {
			flags |= protocol.FlagTC
		}
		w.PrependUint16(flags)

		var id uint16
		if !o.Multicast {
			id = o.ID
		}
		w.PrependUint16(id)

		o.packets = append(o.packets, w.Bytes())
		qo, ao, uo, do = newQo, newAo, newUo, newDo

		if !remaining {
			break
		}
	}

	o.finished = true
	return o.packets, nil
}

// overflowed checks the writer against the limit in force for this write —
// MaxMsgAbsolute for the first element of the packet, MaxMsgTypical after —
// and flips allowLong off regardless of the outcome, since the one-shot
// allowance is spent the moment it's consulted.
func overflowed(w *Writer, allowLong *bool) bool {
	limit := protocol.MaxMsgTypical
	if *allowLong {
		limit = protocol.MaxMsgAbsolute
	}
	*allowLong = false
	return w.Len() > limit
}

func writeQuestion(w *Writer, q records.Question, multicast bool) error {
	if err := w.WriteName(q.Name); err != nil {
		return err
	}
	w.WriteUint16(q.Type)
	class := q.Class
	if multicast && q.Unique {
		class |= protocol.ClassUnique
	}
	w.WriteUint16(class)
	return nil
}

func writeRecord(w *Writer, rec records.Record, now int64, multicast bool) error {
	h := rec.Header()
	if err := w.WriteName(h.Name); err != nil {
		return err
	}
	w.WriteUint16(h.Type)
	class := h.Class
	if multicast && h.Unique {
		class |= protocol.ClassUnique
	}
	w.WriteUint16(class)
	w.WriteUint32(h.RemainingTTL(now))

	placeholder := w.WriteUint16Placeholder()
	before := w.Len()
	if err := rec.WriteRData(w); err != nil {
		return err
	}
	w.PatchUint16(placeholder, uint16(w.Len()-before)) //nolint:gosec // rdata is bounded by the packet size ceiling
	return nil
}
