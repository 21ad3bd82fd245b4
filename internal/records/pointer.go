package records

import "fmt"

// Pointer is a PTR or CNAME record: a single aliased domain name.
type Pointer struct {
	RecordHeader
	Alias string
}

func NewPointer(header RecordHeader, alias string) *Pointer {
	return &Pointer{RecordHeader: header, Alias: alias}
}

func (p *Pointer) Header() *RecordHeader { return &p.RecordHeader }

func (p *Pointer) WriteRData(w NameWriter) error {
	return w.WriteName(p.Alias)
}

func (p *Pointer) Equal(other Record) bool {
	o, ok := other.(*Pointer)
	if !ok {
		return false
	}
	return p.Alias == o.Alias
}

func (p *Pointer) RData() []byte {
	return []byte(p.Alias)
}

func (p *Pointer) String() string {
	return fmt.Sprintf("Pointer(%s -> %s)", p.Entry.Name, p.Alias)
}
