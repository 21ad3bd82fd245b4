package message

import "github.com/joshuafuller/mdnscodec/internal/protocol"

// Header is the fixed 12-byte DNS message header (RFC 1035 §4.1.1).
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

func (h Header) IsQuery() bool {
	return h.Flags&protocol.FlagQR == 0
}

func (h Header) IsResponse() bool {
	return h.Flags&protocol.FlagQR != 0
}

func (h Header) RCODE() uint8 {
	return uint8(h.Flags & 0x000F) //nolint:gosec // masked to 4 bits
}

func (h Header) OPCODE() uint8 {
	return uint8((h.Flags >> 11) & 0x0F) //nolint:gosec // masked to 4 bits
}
