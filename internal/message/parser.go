package message

import (
	"encoding/binary"
	"net"

	"github.com/joshuafuller/mdnscodec/internal/clock"
	cerrors "github.com/joshuafuller/mdnscodec/internal/errors"
	"github.com/joshuafuller/mdnscodec/internal/logging"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
	"github.com/joshuafuller/mdnscodec/internal/records"
)

// Incoming is a parsed datagram. Answers aggregates the wire message's
// answer, authority, and additional sections in wire order — the
// authoritative/additional distinction is not preserved by this reader;
// downstream logic treats every received record uniformly.
type Incoming struct {
	Header    Header
	Questions []records.Question
	Answers   []records.Record
	Valid     bool
}

// Parse decodes one mDNS datagram. It never returns an error: a malformed
// message is logged through log and comes back with Valid false and
// whatever prefix of questions/answers decoded successfully before the
// failure.
func Parse(msg []byte, clk clock.Clock, log logging.Logger) *Incoming {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logging.Nop{}
	}

	in := &Incoming{Valid: true}

	offset, err := readHeader(msg, &in.Header)
	if err != nil {
		in.fail(log, err)
		return in
	}

	for i := 0; i < int(in.Header.QDCount); i++ {
		var q records.Question
		q, offset, err = parseQuestion(msg, offset)
		if err != nil {
			in.fail(log, err)
			return in
		}
		in.Questions = append(in.Questions, q)
	}

	total := int(in.Header.ANCount) + int(in.Header.NSCount) + int(in.Header.ARCount)
	for i := 0; i < total; i++ {
		var rec records.Record
		var skip bool
		rec, offset, skip, err = parseRecord(msg, offset, clk)
		if err != nil {
			in.fail(log, err)
			return in
		}
		if !skip {
			in.Answers = append(in.Answers, rec)
		}
	}

	return in
}

func (in *Incoming) fail(log logging.Logger, err error) {
	in.Valid = false
	log.Warn("incoming mdns message rejected", logging.Field{Key: "error", Value: err.Error()})
}

func readHeader(msg []byte, h *Header) (int, error) {
	if len(msg) < headerSize {
		return 0, &cerrors.IncomingDecodeError{Operation: "read header", Offset: 0, Message: "message shorter than header"}
	}
	h.ID = binary.BigEndian.Uint16(msg[0:2])
	h.Flags = binary.BigEndian.Uint16(msg[2:4])
	h.QDCount = binary.BigEndian.Uint16(msg[4:6])
	h.ANCount = binary.BigEndian.Uint16(msg[6:8])
	h.NSCount = binary.BigEndian.Uint16(msg[8:10])
	h.ARCount = binary.BigEndian.Uint16(msg[10:12])
	return headerSize, nil
}

func parseQuestion(msg []byte, offset int) (records.Question, int, error) {
	name, offset, err := ParseName(msg, offset)
	if err != nil {
		return records.Question{}, 0, err
	}
	if offset+4 > len(msg) {
		return records.Question{}, 0, &cerrors.IncomingDecodeError{Operation: "read question", Offset: offset, Message: "truncated question"}
	}
	typ := binary.BigEndian.Uint16(msg[offset:])
	class := binary.BigEndian.Uint16(msg[offset+2:])
	return records.NewQuestion(name, typ, class), offset + 4, nil
}

// parseRecord reads one answer/authority/additional entry. skip is true
// when the record type is not one this codec decodes; the cursor still
// advances past its rdata so later records stay aligned.
func parseRecord(msg []byte, offset int, clk clock.Clock) (rec records.Record, newOffset int, skip bool, err error) {
	name, offset, err := ParseName(msg, offset)
	if err != nil {
		return nil, 0, false, err
	}
	if offset+10 > len(msg) {
		return nil, 0, false, &cerrors.IncomingDecodeError{Operation: "read record", Offset: offset, Message: "truncated record header"}
	}
	typ := binary.BigEndian.Uint16(msg[offset:])
	class := binary.BigEndian.Uint16(msg[offset+2:])
	ttl := binary.BigEndian.Uint32(msg[offset+4:])
	rdlength := binary.BigEndian.Uint16(msg[offset+8:])
	rdataStart := offset + 10
	rdataEnd := rdataStart + int(rdlength)
	if rdataEnd > len(msg) {
		return nil, 0, false, &cerrors.IncomingDecodeError{Operation: "read record", Offset: offset, Message: "rdata runs past end of message"}
	}

	entry := records.NewEntry(name, typ, class)
	header := records.NewRecordHeader(entry, ttl, clk)

	switch protocol.RecordType(typ) {
	case protocol.RecordTypeA:
		if rdlength != 4 {
			return nil, 0, false, &cerrors.IncomingDecodeError{Operation: "read A record", Offset: rdataStart, Message: "rdlength must be 4"}
		}
		rec = records.NewAddress(header, net.IP(msg[rdataStart:rdataEnd]))
	case protocol.RecordTypeAAAA:
		if rdlength != 16 {
			return nil, 0, false, &cerrors.IncomingDecodeError{Operation: "read AAAA record", Offset: rdataStart, Message: "rdlength must be 16"}
		}
		rec = records.NewAddress(header, net.IP(msg[rdataStart:rdataEnd]))
	case protocol.RecordTypePTR, protocol.RecordTypeCNAME:
		alias, _, nerr := ParseName(msg, rdataStart)
		if nerr != nil {
			return nil, 0, false, nerr
		}
		rec = records.NewPointer(header, alias)
	case protocol.RecordTypeTXT:
		data := make([]byte, rdlength)
		copy(data, msg[rdataStart:rdataEnd])
		rec = records.NewText(header, data)
	case protocol.RecordTypeSRV:
		if rdlength < 7 {
			return nil, 0, false, &cerrors.IncomingDecodeError{Operation: "read SRV record", Offset: rdataStart, Message: "rdlength too short"}
		}
		priority := binary.BigEndian.Uint16(msg[rdataStart:])
		weight := binary.BigEndian.Uint16(msg[rdataStart+2:])
		port := binary.BigEndian.Uint16(msg[rdataStart+4:])
		target, _, nerr := ParseName(msg, rdataStart+6)
		if nerr != nil {
			return nil, 0, false, nerr
		}
		rec = records.NewService(header, priority, weight, port, target)
	case protocol.RecordTypeHINFO:
		cpu, pos, nerr := ReadCharacterString(msg, rdataStart)
		if nerr != nil {
			return nil, 0, false, nerr
		}
		osName, _, nerr := ReadCharacterString(msg, pos)
		if nerr != nil {
			return nil, 0, false, nerr
		}
		rec = records.NewHinfo(header, cpu, osName)
	default:
		return nil, rdataEnd, true, nil
	}

	return rec, rdataEnd, false, nil
}
