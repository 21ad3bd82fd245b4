package records

// Question is a single entry in a message's question section. Unique, here,
// carries the RFC 6762 §5.4 QU ("unicast response requested") meaning
// rather than the cache-flush meaning it has on a record.
type Question struct {
	Entry
}

func NewQuestion(name string, typ uint16, wireClass uint16) Question {
	return Question{Entry: NewEntry(name, typ, wireClass)}
}

// AnsweredBy reports whether r would satisfy this question: same name and
// class, and either the same type or this question asks for ANY.
func (q Question) AnsweredBy(r Record) bool {
	h := r.Header()
	if q.Key != h.Key || q.Class != h.Class {
		return false
	}
	return q.Type == h.Type || q.Type == anyType
}

const anyType = 255
