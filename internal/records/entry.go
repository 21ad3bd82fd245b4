// Package records implements the mDNS entity model: questions and the
// tagged-variant resource records (address, pointer, text, service,
// host-info), their TTL deadline bookkeeping, and the read-only cache
// capability the outgoing builder consults to elide questions.
package records

import "strings"

// Entry is the (name, type, class) triple shared by every question and
// record, plus the cache-flush/QU bit split out of the wire class field.
type Entry struct {
	Name    string // display form, case preserved
	Key     string // lower-cased form used for lookups and equality
	Type    uint16
	Class   uint16 // masked, without the unique/QU bit
	Unique  bool   // cache-flush bit on records, QU bit on questions
}

// NewEntry splits a raw wire class field into its masked class and the
// unique/QU bit, and folds the name for the lookup key.
func NewEntry(name string, typ uint16, wireClass uint16) Entry {
	return Entry{
		Name:   name,
		Key:    strings.ToLower(name),
		Type:   typ,
		Class:  wireClass &^ classUniqueBit,
		Unique: wireClass&classUniqueBit != 0,
	}
}

const classUniqueBit = 0x8000

// WireClass reassembles the class field with the unique/QU bit, the form
// that belongs on the wire.
func (e Entry) WireClass() uint16 {
	c := e.Class
	if e.Unique {
		c |= classUniqueBit
	}
	return c
}

func sameEntry(a, b Entry) bool {
	return a.Key == b.Key && a.Type == b.Type && a.Class == b.Class
}
