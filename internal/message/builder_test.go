package message

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/mdnscodec/internal/clock"
	"github.com/joshuafuller/mdnscodec/internal/logging"
	"github.com/joshuafuller/mdnscodec/internal/protocol"
	"github.com/joshuafuller/mdnscodec/internal/records"
)

// TestTrivialQuestion covers the smallest possible outgoing message: one question, no answers.
func TestTrivialQuestion(t *testing.T) {
	o := NewOutgoing(0, true, 0, logging.Nop{})
	o.AddQuestion(records.NewQuestion("_http._tcp.local.", uint16(protocol.RecordTypePTR), uint16(protocol.ClassIN)))

	packets, err := o.Packets()
	require.NoError(t, err)
	require.Len(t, packets, 1)

	in := Parse(packets[0], clock.System{}, logging.Nop{})
	require.True(t, in.Valid)
	require.Len(t, in.Questions, 1)
	require.Empty(t, in.Answers)
	require.Equal(t, "_http._tcp.local.", in.Questions[0].Name)
	require.Equal(t, uint16(protocol.RecordTypePTR), in.Questions[0].Type)
}

// TestNameCompressionShrinksPacket: a packet carrying
// both answers together must be smaller than the sum of each answer sent
// alone, since the shared ".local." suffix (and the second header) no
// longer has to be repeated.
func TestNameCompressionShrinksPacket(t *testing.T) {
	clk := clock.NewFixed(0)
	answer1 := func() records.Record {
		return records.NewPointer(records.NewRecordHeader(records.NewEntry("x.local.", uint16(protocol.RecordTypePTR), uint16(protocol.ClassIN)), 120, clk), "a.local.")
	}
	answer2 := func() records.Record {
		return records.NewPointer(records.NewRecordHeader(records.NewEntry("y.local.", uint16(protocol.RecordTypePTR), uint16(protocol.ClassIN)), 120, clk), "b.local.")
	}

	solo1 := NewOutgoing(protocol.FlagQR, true, 0, logging.Nop{})
	solo1.AddAnswerAtTime(answer1(), 0)
	packets1, err := solo1.Packets()
	require.NoError(t, err)

	solo2 := NewOutgoing(protocol.FlagQR, true, 0, logging.Nop{})
	solo2.AddAnswerAtTime(answer2(), 0)
	packets2, err := solo2.Packets()
	require.NoError(t, err)

	combined := NewOutgoing(protocol.FlagQR, true, 0, logging.Nop{})
	combined.AddAnswerAtTime(answer1(), 0)
	combined.AddAnswerAtTime(answer2(), 0)
	combinedPackets, err := combined.Packets()
	require.NoError(t, err)
	require.Len(t, combinedPackets, 1)

	require.Less(t, len(combinedPackets[0]), len(packets1[0])+len(packets2[0]))

	in := Parse(combinedPackets[0], clock.System{}, logging.Nop{})
	require.True(t, in.Valid)
	require.Len(t, in.Answers, 2)
}

// TestOversizeSingleAnswerGetsItsOwnPacket covers a record too large to share a packet with anything else.
func TestOversizeSingleAnswerGetsItsOwnPacket(t *testing.T) {
	clk := clock.NewFixed(0)
	o := NewOutgoing(protocol.FlagQR, true, 0, logging.Nop{})

	big := make([]byte, 1500)
	o.AddAnswerAtTime(records.NewText(records.NewRecordHeader(records.NewEntry("big.local.", uint16(protocol.RecordTypeTXT), uint16(protocol.ClassIN)), 120, clk), big), 0)
	o.AddAnswerAtTime(records.NewText(records.NewRecordHeader(records.NewEntry("small.local.", uint16(protocol.RecordTypeTXT), uint16(protocol.ClassIN)), 120, clk), []byte{1}), 0)

	packets, err := o.Packets()
	require.NoError(t, err)
	require.Len(t, packets, 2)
	require.Greater(t, len(packets[0]), protocol.MaxMsgTypical)
	require.LessOrEqual(t, len(packets[0]), protocol.MaxMsgAbsolute)
}

// TestQuerySpillSetsTruncationBit covers a question list too large for one packet.
func TestQuerySpillSetsTruncationBit(t *testing.T) {
	o := NewOutgoing(0, true, 0, logging.Nop{})
	for i := 0; i < 500; i++ {
		o.AddQuestion(records.NewQuestion("service-name-padding-for-size.local.", uint16(protocol.RecordTypePTR), uint16(protocol.ClassIN)))
	}

	packets, err := o.Packets()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(packets), 2)

	for i, p := range packets {
		flags := binary.BigEndian.Uint16(p[2:4])
		tc := flags&protocol.FlagTC != 0
		if i < len(packets)-1 {
			require.True(t, tc, "packet %d should have TC set", i)
		} else {
			require.False(t, tc, "last packet must not have TC set")
		}
	}
}

func TestPacketsIsIdempotent(t *testing.T) {
	o := NewOutgoing(0, true, 0, logging.Nop{})
	o.AddQuestion(records.NewQuestion("a.local.", uint16(protocol.RecordTypeA), uint16(protocol.ClassIN)))

	first, err := o.Packets()
	require.NoError(t, err)
	o.AddQuestion(records.NewQuestion("b.local.", uint16(protocol.RecordTypeA), uint16(protocol.ClassIN)))
	second, err := o.Packets()
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestAddAnswerSuppressedByKnownAnswer(t *testing.T) {
	clk := clock.NewFixed(0)
	entry := records.NewEntry("_http._tcp.local.", uint16(protocol.RecordTypePTR), uint16(protocol.ClassIN))
	ours := records.NewPointer(records.NewRecordHeader(entry, 4500, clk), "svc._http._tcp.local.")
	known := records.NewPointer(records.NewRecordHeader(entry, 4500, clk), "svc._http._tcp.local.")

	incoming := &Incoming{Answers: []records.Record{known}}
	o := NewOutgoing(protocol.FlagQR, true, 0, logging.Nop{})
	o.AddAnswer(incoming, ours)

	packets, err := o.Packets()
	require.NoError(t, err)

	in := Parse(packets[0], clock.System{}, logging.Nop{})
	require.Empty(t, in.Answers)
}

type fakeCache struct {
	byDetails map[string]records.Record
}

func (c *fakeCache) GetByDetails(name string, typ uint16, class uint16) records.Record {
	return c.byDetails[name]
}

func (c *fakeCache) GetAllByDetails(name string, typ uint16, class uint16) []records.Record {
	if r := c.byDetails[name]; r != nil {
		return []records.Record{r}
	}
	return nil
}

func TestAddQuestionOrOneCacheHit(t *testing.T) {
	clk := clock.NewFixed(0)
	cached := records.NewAddress(records.NewRecordHeader(records.NewEntry("host.local.", uint16(protocol.RecordTypeA), uint16(protocol.ClassIN)), 4500, clk), net.ParseIP("10.0.0.1"))
	cache := &fakeCache{byDetails: map[string]records.Record{"host.local.": cached}}

	o := NewOutgoing(0, true, 0, logging.Nop{})
	o.AddQuestionOrOneCache(cache, 0, "host.local.", uint16(protocol.RecordTypeA), uint16(protocol.ClassIN))

	require.Empty(t, o.questions)
	require.Len(t, o.answers, 1)
}

func TestAddQuestionOrOneCacheMiss(t *testing.T) {
	cache := &fakeCache{byDetails: map[string]records.Record{}}
	o := NewOutgoing(0, true, 0, logging.Nop{})
	o.AddQuestionOrOneCache(cache, 0, "host.local.", uint16(protocol.RecordTypeA), uint16(protocol.ClassIN))

	require.Len(t, o.questions, 1)
	require.Empty(t, o.answers)
}
