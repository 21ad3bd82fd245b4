package records

import "fmt"

// Hinfo is a HINFO record: two character-strings, CPU and OS, per RFC 1035
// §3.3.2.
type Hinfo struct {
	RecordHeader
	CPU string
	OS  string
}

func NewHinfo(header RecordHeader, cpu, os string) *Hinfo {
	return &Hinfo{RecordHeader: header, CPU: cpu, OS: os}
}

func (h *Hinfo) Header() *RecordHeader { return &h.RecordHeader }

func (h *Hinfo) WriteRData(w NameWriter) error {
	if err := w.WriteCharacterString(h.CPU); err != nil {
		return err
	}
	return w.WriteCharacterString(h.OS)
}

func (h *Hinfo) Equal(other Record) bool {
	o, ok := other.(*Hinfo)
	if !ok {
		return false
	}
	return h.CPU == o.CPU && h.OS == o.OS
}

func (h *Hinfo) RData() []byte {
	return []byte(h.CPU + "\x00" + h.OS)
}

func (h *Hinfo) String() string {
	return fmt.Sprintf("Hinfo(%s cpu=%q os=%q)", h.Entry.Name, h.CPU, h.OS)
}
