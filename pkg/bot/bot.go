package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/yukifw/ragbot/internal/types"
	"github.com/yukifw/ragbot/pkg/router"
)

// Bot owns the Discord session and dispatches inbound messages to the
// handler. Each message runs in its own goroutine so a slow pipeline
// invocation never delays unrelated messages.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	logger  *zap.Logger
	cancel  context.CancelFunc
}

func New(token string, r *router.Router, pipe Pipe, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	handler := NewHandler(r, pipe, &discordSender{session: session}, logger)

	return &Bot{
		session: session,
		handler: handler,
		logger:  logger,
	}, nil
}

// Start opens the gateway connection and begins serving messages until
// ctx is cancelled or Stop is called.
func (b *Bot) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("logged in",
			zap.String("username", s.State.User.Username),
			zap.String("user_id", s.State.User.ID))
	})

	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		msg := Message{
			GuildID:      m.GuildID,
			ChannelID:    m.ChannelID,
			AuthorID:     m.Author.ID,
			AuthorIsSelf: m.Author.ID == s.State.User.ID,
			Content:      m.Content,
		}
		go b.handler.HandleMessage(ctx, msg)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	return nil
}

// Stop closes the gateway connection. In-flight invocations observe the
// cancelled context and wind down on their own.
func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.session.Close(); err != nil {
		b.logger.Error("discord close failed", zap.Error(err))
	}
}

// discordSender adapts the session to the Sender interface.
type discordSender struct {
	session *discordgo.Session
}

var _ types.Sender = (*discordSender)(nil)

func (d *discordSender) Send(channelID, text string) error {
	_, err := d.session.ChannelMessageSend(channelID, text)
	return err
}

func (d *discordSender) Typing(channelID string) error {
	return d.session.ChannelTyping(channelID)
}
