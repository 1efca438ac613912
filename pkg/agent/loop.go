package agent

import (
	"context"

	"github.com/tinyland-inc/reefbot/pkg/bus"
	"github.com/tinyland-inc/reefbot/pkg/logger"
)

// Loop drains inbound events off the bus and dispatches each to the mediator
// in its own goroutine, so one slow generation never blocks the queue.
type Loop struct {
	mediator *Mediator
	bus      *bus.MessageBus
}

func NewLoop(mediator *Mediator, msgBus *bus.MessageBus) *Loop {
	return &Loop{mediator: mediator, bus: msgBus}
}

// Run consumes until ctx is canceled or the bus closes.
func (l *Loop) Run(ctx context.Context) {
	logger.InfoC("agent", "Decision loop started")
	for {
		msg, ok := l.bus.ConsumeInbound(ctx)
		if !ok {
			logger.InfoC("agent", "Decision loop stopped")
			return
		}
		go l.dispatch(ctx, msg)
	}
}

func (l *Loop) dispatch(ctx context.Context, msg bus.InboundMessage) {
	decision := l.mediator.Handle(ctx, msg)
	switch decision.Kind() {
	case DecisionReply:
		out := bus.OutboundMessage{ChannelID: msg.ChannelID, Content: decision.Text()}
		if err := l.bus.PublishOutbound(ctx, out); err != nil {
			logger.WarnCF("agent", "Dropping reply, outbound publish failed", map[string]any{
				"channel_id": msg.ChannelID,
				"message_id": msg.MessageID,
				"error":      err.Error(),
			})
		}
	case DecisionFail:
		logger.WarnCF("agent", "Message handling failed", map[string]any{
			"message_id": msg.MessageID,
			"reason":     decision.Reason(),
		})
	case DecisionIgnore:
	}
}
