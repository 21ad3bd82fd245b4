package records

import (
	"bytes"
	"fmt"
	"net"

	"github.com/joshuafuller/mdnscodec/internal/protocol"
)

// Address is an A or AAAA record: a raw 4- or 16-byte network address.
type Address struct {
	RecordHeader
	IP net.IP // 4 bytes for A, 16 bytes for AAAA
}

func NewAddress(header RecordHeader, ip net.IP) *Address {
	if v4 := ip.To4(); v4 != nil && header.Type == uint16(protocol.RecordTypeA) {
		ip = v4
	}
	return &Address{RecordHeader: header, IP: ip}
}

func (a *Address) Header() *RecordHeader { return &a.RecordHeader }

func (a *Address) WriteRData(w NameWriter) error {
	w.WriteBytes(a.IP)
	return nil
}

func (a *Address) Equal(other Record) bool {
	o, ok := other.(*Address)
	if !ok {
		return false
	}
	return a.IP.Equal(o.IP)
}

func (a *Address) RData() []byte {
	return bytes.Clone(a.IP)
}

func (a *Address) String() string {
	return fmt.Sprintf("Address(%s %s -> %s)", a.Entry.Name, protocol.RecordType(a.Type), a.IP)
}
