package records

import "fmt"

// Service is an SRV record per RFC 2782.
type Service struct {
	RecordHeader
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func NewService(header RecordHeader, priority, weight, port uint16, target string) *Service {
	return &Service{RecordHeader: header, Priority: priority, Weight: weight, Port: port, Target: target}
}

func (s *Service) Header() *RecordHeader { return &s.RecordHeader }

func (s *Service) WriteRData(w NameWriter) error {
	w.WriteUint16(s.Priority)
	w.WriteUint16(s.Weight)
	w.WriteUint16(s.Port)
	return w.WriteName(s.Target)
}

func (s *Service) Equal(other Record) bool {
	o, ok := other.(*Service)
	if !ok {
		return false
	}
	return s.Priority == o.Priority && s.Weight == o.Weight && s.Port == o.Port && s.Target == o.Target
}

func (s *Service) RData() []byte {
	b := []byte{byte(s.Priority >> 8), byte(s.Priority), byte(s.Weight >> 8), byte(s.Weight), byte(s.Port >> 8), byte(s.Port)}
	return append(b, []byte(s.Target)...)
}

func (s *Service) String() string {
	return fmt.Sprintf("Service(%s -> %s:%d prio=%d weight=%d)", s.Entry.Name, s.Target, s.Port, s.Priority, s.Weight)
}
