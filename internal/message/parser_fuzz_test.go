package message

import (
	"testing"

	"github.com/joshuafuller/mdnscodec/internal/clock"
	"github.com/joshuafuller/mdnscodec/internal/logging"
)

// FuzzParse feeds arbitrary bytes to Parse. The only property under test is
// that it never panics and never fails to return — a malformed datagram
// must come back as Valid: false, not an infinite loop or a crash.
func FuzzParse(f *testing.F) {
	f.Add([]byte{})
	f.Add(make([]byte, 12))
	f.Add([]byte{0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0xC0, 0x00, 0, 1, 0, 1, 0, 0, 0, 0x78, 0, 4, 1, 2, 3, 4})

	clk := clock.NewFixed(0)
	f.Fuzz(func(t *testing.T, data []byte) {
		in := Parse(data, clk, logging.Nop{})
		if in == nil {
			t.Fatal("Parse must never return nil")
		}
	})
}

// FuzzParseName isolates the name decoder, which is where compression-
// pointer cycles and truncated labels live.
func FuzzParseName(f *testing.F) {
	f.Add([]byte{}, 0)
	f.Add([]byte{0xC0, 0x00}, 0)
	f.Add([]byte{5, 'h', 'e', 'l', 'l', 'o', 0}, 0)

	f.Fuzz(func(t *testing.T, data []byte, offset int) {
		if offset < 0 || offset > len(data) {
			return
		}
		_, _, _ = ParseName(data, offset)
	})
}
