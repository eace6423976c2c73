package ringchan

import "sync/atomic"

type counter int

const (
	sendAttempts counter = iota
	sendFull
	recvAttempts
	recvEmpty
	recvContended
	waits
	numCounters
)

// counters is nil unless the channel was built WithStats(true); add on a
// nil counters is a no-op.
type counters [numCounters]atomic.Uint64

func (c *counters) add(k counter) {
	if c != nil {
		c[k].Add(1)
	}
}

// Stats is a point-in-time copy of the channel counters.
// All fields are zero when the channel was created without WithStats(true).
type Stats struct {
	SendAttempts uint64 // TrySend calls, including those made by Send
	SendFull     uint64 // sends rejected because the ring was full

	RecvAttempts  uint64 // TryRecv calls, including those made by Recv
	RecvEmpty     uint64 // receives that found the ring empty
	RecvContended uint64 // read cursor CAS attempts lost to another consumer

	Waits uint64 // pauses taken by the blocking operations
}

func (c *counters) snapshot() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		SendAttempts:  c[sendAttempts].Load(),
		SendFull:      c[sendFull].Load(),
		RecvAttempts:  c[recvAttempts].Load(),
		RecvEmpty:     c[recvEmpty].Load(),
		RecvContended: c[recvContended].Load(),
		Waits:         c[waits].Load(),
	}
}
