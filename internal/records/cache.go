package records

// Cache is the narrow, read-only capability the query-with-cache helpers
// consult. The codec never writes to it and never assumes anything about
// its eviction policy or backing store.
type Cache interface {
	// GetByDetails returns one cached record matching (name, type, class),
	// or nil if there is none.
	GetByDetails(name string, typ uint16, class uint16) Record
	// GetAllByDetails returns every cached record matching (name, type,
	// class); used where more than one answer may apply (e.g. AAAA).
	GetAllByDetails(name string, typ uint16, class uint16) []Record
}
