package records

import (
	"bytes"
	"fmt"
)

// Text is a TXT record: an opaque rdata blob, conventionally a sequence of
// length-prefixed "key=value" strings per RFC 6763 §6, but this layer does
// not interpret the contents.
type Text struct {
	RecordHeader
	Data []byte
}

func NewText(header RecordHeader, data []byte) *Text {
	return &Text{RecordHeader: header, Data: data}
}

func (t *Text) Header() *RecordHeader { return &t.RecordHeader }

func (t *Text) WriteRData(w NameWriter) error {
	w.WriteBytes(t.Data)
	return nil
}

func (t *Text) Equal(other Record) bool {
	o, ok := other.(*Text)
	if !ok {
		return false
	}
	return bytes.Equal(t.Data, o.Data)
}

func (t *Text) RData() []byte {
	return bytes.Clone(t.Data)
}

func (t *Text) String() string {
	return fmt.Sprintf("Text(%s %d bytes)", t.Entry.Name, len(t.Data))
}
