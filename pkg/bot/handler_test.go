package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/pkg/router"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	typings int
}

func (f *fakeSender) Send(channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, channelID+"|"+text)
	return nil
}

func (f *fakeSender) Typing(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typings++
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeSender) typingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.typings
}

type fakePipe struct {
	outcome models.Outcome
	calls   int
}

func (f *fakePipe) Handle(ctx context.Context, text string) models.Outcome {
	f.calls++
	return f.outcome
}

func TestHandleMessageSelfAuthored(t *testing.T) {
	sender := &fakeSender{}
	pipe := &fakePipe{outcome: models.Answered("never")}
	h := NewHandler(router.New(""), pipe, sender, nil)

	h.HandleMessage(context.Background(), Message{
		GuildID: "g", ChannelID: "c", AuthorID: "bot", AuthorIsSelf: true, Content: "!ask x",
	})

	assert.Empty(t, sender.messages())
	assert.Zero(t, sender.typingCount())
	assert.Zero(t, pipe.calls)
}

func TestHandleMessageRejected(t *testing.T) {
	sender := &fakeSender{}
	pipe := &fakePipe{outcome: models.Answered("never")}
	h := NewHandler(router.New("allowed-channel"), pipe, sender, nil)

	h.HandleMessage(context.Background(), Message{
		GuildID: "g", ChannelID: "other-channel", Content: "hello",
	})

	// Out-of-scope messages are dropped silently.
	assert.Empty(t, sender.messages())
	assert.Zero(t, pipe.calls)
}

func TestHandleMessageConfigCommand(t *testing.T) {
	sender := &fakeSender{}
	pipe := &fakePipe{outcome: models.Answered("never")}
	h := NewHandler(router.New(""), pipe, sender, nil)

	h.HandleMessage(context.Background(), Message{
		GuildID: "g", ChannelID: "c1", Content: "!here",
	})

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "c1|"+router.ConfirmationText, msgs[0])
	assert.Zero(t, pipe.calls)
}

func TestHandleMessageAnswer(t *testing.T) {
	sender := &fakeSender{}
	pipe := &fakePipe{outcome: models.Answered("the answer")}
	h := NewHandler(router.New(""), pipe, sender, nil)

	h.HandleMessage(context.Background(), Message{
		GuildID: "g", ChannelID: "c1", Content: "!ask weather",
	})

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "c1|the answer", msgs[0])
	assert.Equal(t, 1, pipe.calls)
	assert.GreaterOrEqual(t, sender.typingCount(), 1)
}

func TestHandleMessageFailure(t *testing.T) {
	sender := &fakeSender{}
	pipe := &fakePipe{outcome: models.Failed(models.StageGenerate, "rate limited")}
	h := NewHandler(router.New(""), pipe, sender, nil)

	h.HandleMessage(context.Background(), Message{
		GuildID: "g", ChannelID: "c1", Content: "!ask weather",
	})

	// Exactly one user-visible message, naming the stage in plain language.
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "generating the answer")
	assert.Contains(t, msgs[0], "rate limited")
}

func TestFormatOutcomeTruncation(t *testing.T) {
	long := strings.Repeat("答", 3000)
	text := formatOutcome(models.Answered(long))

	assert.Equal(t, maxMessageLength, len([]rune(text)))
	assert.True(t, utf8.ValidString(text))

	text = formatOutcome(models.Failed(models.StageSearch, strings.Repeat("界", 3000)))
	assert.LessOrEqual(t, len([]rune(text)), maxMessageLength)
	assert.True(t, utf8.ValidString(text))
	assert.True(t, strings.HasPrefix(text, "Sorry, something went wrong while searching the web"))
}

func TestFormatOutcomeShortAnswer(t *testing.T) {
	assert.Equal(t, "hi", formatOutcome(models.Answered("hi")))
}
