// Package message implements the mDNS wire codec: name compression, the
// incoming datagram parser, and the outgoing packet builder with its
// size-bounded, rollback-capable assembly loop.
package message

import (
	"encoding/binary"
	"strings"

	cerrors "github.com/joshuafuller/mdnscodec/internal/errors"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
)

// Writer accumulates one outgoing packet's body as a sequence of byte
// chunks, tracking a running size counter (seeded at 12 for the header)
// and a name-compression dictionary scoped to the packet's lifetime.
//
// Chunks, not a single growing buffer, because rollback only needs to
// forget the tail: truncating a slice of chunks is cheaper than copying a
// byte buffer back to a checkpoint length.
type Writer struct {
	chunks [][]byte
	size   int
	names  map[string]int // lower-cased, dot-terminated suffix -> absolute offset
}

// NewWriter starts a fresh per-packet writer state.
func NewWriter() *Writer {
	return &Writer{size: headerSize, names: make(map[string]int)}
}

const headerSize = 12

func (w *Writer) Len() int { return w.size }

// Checkpoint is a rollback point captured before speculatively writing an
// element; Rollback restores the writer to exactly this state.
type Checkpoint struct {
	chunkCount int
	size       int
}

func (w *Writer) Checkpoint() Checkpoint {
	return Checkpoint{chunkCount: len(w.chunks), size: w.size}
}

// Rollback truncates the chunk buffer and size back to cp, and evicts every
// compression dictionary entry recorded at or after cp's size — those
// entries point at bytes that no longer exist in this packet.
func (w *Writer) Rollback(cp Checkpoint) {
	w.chunks = w.chunks[:cp.chunkCount]
	w.size = cp.size
	for name, off := range w.names {
		if off >= cp.size {
			delete(w.names, name)
		}
	}
}

func (w *Writer) push(b []byte) {
	w.chunks = append(w.chunks, b)
	w.size += len(b)
}

// WriteUint16Placeholder reserves two zero bytes and returns a handle that
// PatchUint16 can later use to fill in a value computed after more bytes
// have been written — used for RDLENGTH, which isn't known until the rdata
// itself has been serialized.
func (w *Writer) WriteUint16Placeholder() int {
	idx := len(w.chunks)
	w.WriteUint16(0)
	return idx
}

func (w *Writer) PatchUint16(idx int, v uint16) {
	binary.BigEndian.PutUint16(w.chunks[idx], v)
}

func (w *Writer) WriteUint8(v byte) {
	w.push([]byte{v})
}

func (w *Writer) WriteUint16(v uint16) {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	w.push(b)
}

func (w *Writer) WriteUint32(v uint32) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	w.push(b)
}

func (w *Writer) WriteBytes(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	w.push(cp)
}

// WriteCharacterString writes a single length-prefixed string (RFC 1035
// §3.3): one length byte followed by that many bytes of content.
func (w *Writer) WriteCharacterString(s string) error {
	if len(s) > protocol.MaxCharacterStringSize {
		return &cerrors.NamePartTooLongError{Part: s, Limit: protocol.MaxCharacterStringSize}
	}
	w.WriteUint8(byte(len(s))) //nolint:gosec // bounds checked above
	w.WriteBytes([]byte(s))
	return nil
}

// Prepend inserts b at the very front of the chunk stream, used to lay down
// the header fields after the body has been fully assembled.
func (w *Writer) Prepend(b []byte) {
	w.chunks = append([][]byte{b}, w.chunks...)
}

func (w *Writer) PrependUint16(v uint16) {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	w.Prepend(b)
}

// Bytes concatenates every chunk into the final packet.
func (w *Writer) Bytes() []byte {
	out := make([]byte, 0, w.size)
	for _, c := range w.chunks {
		out = append(out, c...)
	}
	return out
}

// WriteName writes name using compression against this packet's
// dictionary: RFC 1035 §4.1.4. It finds the longest suffix of name already
// present in the dictionary, writes the remaining leading labels literally
// (recording each new suffix's offset as it goes), and terminates with
// either a back-pointer to the matched suffix or a zero byte if nothing
// matched.
func (w *Writer) WriteName(name string) error {
	trimmed := strings.TrimSuffix(name, ".")
	var labels []string
	if trimmed != "" {
		labels = strings.Split(trimmed, ".")
	}
	n := len(labels)

	matchIdx := n
	matchOffset := -1
	for i := 0; i < n; i++ {
		suffix := suffixKey(labels[i:])
		if off, ok := w.names[suffix]; ok {
			matchIdx = i
			matchOffset = off
			break
		}
	}

	offset := w.size
	for i := 0; i < matchIdx; i++ {
		suffix := suffixKey(labels[i:])
		if _, exists := w.names[suffix]; !exists && offset < 0x4000 {
			w.names[suffix] = offset
		}
		label := labels[i]
		if len(label) > protocol.MaxLabelLength {
			return &cerrors.NamePartTooLongError{Part: label, Limit: protocol.MaxLabelLength}
		}
		w.WriteUint8(byte(len(label))) //nolint:gosec // bounds checked above
		w.WriteBytes([]byte(label))
		offset += 1 + len(label)
	}

	if matchOffset >= 0 {
		ptr := uint16(protocol.CompressionMask)<<8 | uint16(matchOffset&0x3FFF) //nolint:gosec
		w.WriteUint16(ptr)
	} else {
		w.WriteUint8(0)
	}
	return nil
}

func suffixKey(labels []string) string {
	return strings.ToLower(strings.Join(labels, ".")) + "."
}
