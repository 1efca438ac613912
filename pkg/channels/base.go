// Package channels contains the transport adapters. A channel translates a
// platform's events into bus.InboundMessage and delivers bus.OutboundMessage
// back to the platform.
package channels

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/logger"
)

type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Send(ctx context.Context, msg bus.OutboundMessage) error
	IsRunning() bool
	IsAllowed(senderID string) bool
}

type BaseChannel struct {
	bus       *bus.MessageBus
	running   atomic.Bool
	name      string
	allowList []string
}

func NewBaseChannel(name string, msgBus *bus.MessageBus, allowList []string) *BaseChannel {
	return &BaseChannel{
		bus:       msgBus,
		name:      name,
		allowList: allowList,
	}
}

func (c *BaseChannel) Name() string { return c.name }

func (c *BaseChannel) IsRunning() bool { return c.running.Load() }

func (c *BaseChannel) SetRunning(running bool) { c.running.Store(running) }

// IsAllowed reports whether senderID passes the channel allowlist. An empty
// allowlist admits everyone; entries may carry a leading "@".
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowList) == 0 {
		return true
	}
	for _, allowed := range c.allowList {
		if senderID == strings.TrimPrefix(allowed, "@") {
			return true
		}
	}
	return false
}

// PublishInbound forwards a platform event onto the bus, dropping it with a
// warning if the bus is closed or full past the context deadline.
func (c *BaseChannel) PublishInbound(ctx context.Context, msg bus.InboundMessage) {
	if err := c.bus.PublishInbound(ctx, msg); err != nil {
		logger.WarnCF(c.name, "Dropping inbound message", map[string]any{
			"message_id": msg.MessageID,
			"error":      err.Error(),
		})
	}
}
