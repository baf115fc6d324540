package snowflake

// Snowflake-style 64-bit ids: millisecond timestamp since a custom epoch,
// node id and a per-millisecond sequence. Roughly time-sortable and unique
// across processes as long as node ids differ.
// https://en.wikipedia.org/wiki/Snowflake_ID

import (
	"fmt"
	"sync"
	"time"
)

const (
	customEpoch int64 = 1704067200000 // Jan 1, 2024
	nodeIDBits  uint  = 10
	seqBits     uint  = 12
	maxNodeID   int64 = -1 ^ (-1 << nodeIDBits)
	maxSeq      int64 = -1 ^ (-1 << seqBits)
)

type Generator struct {
	mu        sync.Mutex
	lastStamp int64
	nodeID    int64
	seq       int64
}

func New(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("node id %d out of range [0, %d]", nodeID, maxNodeID)
	}
	return &Generator{nodeID: nodeID}, nil
}

// NextID returns the next unique id. Safe for concurrent use.
func (g *Generator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := time.Now().UnixMilli()
	if ts < g.lastStamp {
		// Clock went backwards, wait it out
		ts = g.wait(ts)
	}
	if ts == g.lastStamp {
		g.seq = (g.seq + 1) & maxSeq
		if g.seq == 0 {
			ts = g.wait(ts)
		}
	} else {
		g.seq = 0
	}
	g.lastStamp = ts

	return ((ts - customEpoch) << (nodeIDBits + seqBits)) |
		(g.nodeID << seqBits) |
		g.seq
}

func (g *Generator) wait(currentTS int64) int64 {
	for currentTS <= g.lastStamp {
		time.Sleep(time.Millisecond)
		currentTS = time.Now().UnixMilli()
	}
	return currentTS
}
