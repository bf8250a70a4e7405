package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/internal/types"
	"github.com/yukifw/ragbot/pkg/router"
)

// The platform clears a typing indicator after about ten seconds, so it
// is refreshed while the pipeline runs.
const typingRefresh = 8 * time.Second

// Pipe is the slice of the pipeline the handler needs.
type Pipe interface {
	Handle(ctx context.Context, text string) models.Outcome
}

// Message is one inbound chat event, already reduced to what routing and
// the pipeline care about.
type Message struct {
	GuildID      string
	ChannelID    string
	AuthorID     string
	AuthorIsSelf bool
	Content      string
}

// Handler runs admission and the pipeline for one inbound message and
// sends exactly one reply for every admitted message.
type Handler struct {
	router *router.Router
	pipe   Pipe
	sender types.Sender
	logger *zap.Logger
}

func NewHandler(r *router.Router, pipe Pipe, sender types.Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		router: r,
		pipe:   pipe,
		sender: sender,
		logger: logger,
	}
}

func (h *Handler) HandleMessage(ctx context.Context, msg Message) {
	if msg.AuthorIsSelf {
		return
	}

	switch h.router.Admit(msg.GuildID, msg.ChannelID, msg.Content) {
	case router.Reject:
		return
	case router.ConfigUpdated:
		if err := h.sender.Send(msg.ChannelID, router.ConfirmationText); err != nil {
			h.logger.Error("confirmation send failed", zap.Error(err))
		}
		return
	}

	stopTyping := h.keepTyping(ctx, msg.ChannelID)
	defer stopTyping()

	outcome := h.pipe.Handle(ctx, msg.Content)

	if err := h.sender.Send(msg.ChannelID, formatOutcome(outcome)); err != nil {
		h.logger.Error("reply send failed",
			zap.String("channel_id", msg.ChannelID),
			zap.Error(err))
	}
}

// keepTyping shows the working indicator until the returned stop function
// is called. Indicator failures are ignored: they must never affect the
// pipeline or the reply.
func (h *Handler) keepTyping(ctx context.Context, channelID string) func() {
	_ = h.sender.Typing(channelID)

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(typingRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = h.sender.Typing(channelID)
			}
		}
	}()
	return func() { close(stop) }
}
