package message

import (
	"strings"

	cerrors "github.com/joshuafuller/mdnscodec/internal/errors"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
)

// ParseName decodes a domain name starting at offset within msg, following
// compression pointers as needed (RFC 1035 §4.1.4).
//
// Cycle protection: first is a monotone lower bound on the offset a
// pointer is allowed to jump to. It starts at the name's own offset, and
// after each jump is tightened to the offset just jumped to. A pointer
// landing at or after first is rejected as circular — every jump must
// strictly decrease the bound, which bounds the number of jumps by the
// message length and guarantees termination.
func ParseName(msg []byte, offset int) (name string, newOffset int, err error) {
	var labels []string
	pos := offset
	first := offset
	jumped := false
	jumps := 0

	for {
		if pos >= len(msg) {
			return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "name runs past end of message"}
		}
		l := msg[pos]
		switch {
		case l == 0:
			pos++
			if !jumped {
				newOffset = pos
			}
			return strings.Join(labels, ".") + ".", newOffset, nil

		case l&protocol.CompressionMask == 0:
			length := int(l)
			pos++
			if pos+length > len(msg) {
				return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "label runs past end of message"}
			}
			labels = append(labels, strings.ToValidUTF8(string(msg[pos:pos+length]), "�"))
			pos += length

		case l&protocol.CompressionMask == protocol.CompressionMask:
			if pos+1 >= len(msg) {
				return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "truncated compression pointer"}
			}
			ptr := (int(l&^protocol.CompressionMask) << 8) | int(msg[pos+1])
			if !jumped {
				newOffset = pos + 2
			}
			jumped = true
			jumps++
			if jumps > protocol.MaxCompressionPointers {
				return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "too many compression pointer jumps"}
			}
			if ptr >= first {
				return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "circular compression pointer"}
			}
			first = ptr
			pos = ptr

		default:
			return "", 0, &cerrors.IncomingDecodeError{Operation: "read name", Offset: pos, Message: "malformed label length byte"}
		}
	}
}

// ReadCharacterString decodes a single length-prefixed string starting at
// offset, returning the string and the offset just past it.
func ReadCharacterString(msg []byte, offset int) (string, int, error) {
	if offset >= len(msg) {
		return "", 0, &cerrors.IncomingDecodeError{Operation: "read character-string", Offset: offset, Message: "truncated"}
	}
	length := int(msg[offset])
	start := offset + 1
	if start+length > len(msg) {
		return "", 0, &cerrors.IncomingDecodeError{Operation: "read character-string", Offset: offset, Message: "runs past end of message"}
	}
	return strings.ToValidUTF8(string(msg[start:start+length]), "�"), start + length, nil
}
