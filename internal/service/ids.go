package service

import (
	"strconv"
	"sync"
	"time"
)

// ID prefixes
const (
	OrderIDPrefix      = "ORDER"
	ProductIDPrefix    = "product"
	InvitationIDPrefix = "INV"
	UserIDPrefix       = "USER"
)

// IDGenerator issues "<prefix>-<epoch ms>" identifiers. Two calls in the same millisecond
// still get distinct ids because the timestamp is bumped past the last one issued.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return prefix + "-" + strconv.FormatInt(ms, 10)
}
