package router

import (
	"strings"
	"sync"
)

// SetChannelCommand assigns the sending channel as a guild's reply channel.
const SetChannelCommand = "!here"

// ConfirmationText is sent back when a reply channel is assigned.
const ConfirmationText = "OK, I will reply in this channel from now on."

type Decision int

const (
	Admit Decision = iota
	Reject
	ConfigUpdated
)

// Router decides whether an inbound message is in scope. A static
// allow-listed channel, when configured, restricts every guild; otherwise
// each guild may assign its own reply channel with SetChannelCommand.
// Router owns the only write path to the routing table.
type Router struct {
	allowedChannel string

	mu      sync.RWMutex
	entries map[string]string // guild ID -> reply channel ID
}

func New(allowedChannel string) *Router {
	return &Router{
		allowedChannel: allowedChannel,
		entries:        make(map[string]string),
	}
}

// Admit routes one inbound message. ConfigUpdated means the message was
// the set-channel command and the pipeline must not run for it.
func (r *Router) Admit(guildID, channelID, text string) Decision {
	if strings.TrimSpace(text) == SetChannelCommand {
		r.mu.Lock()
		r.entries[guildID] = channelID
		r.mu.Unlock()
		return ConfigUpdated
	}

	if r.allowedChannel != "" {
		if channelID == r.allowedChannel {
			return Admit
		}
		return Reject
	}

	r.mu.RLock()
	assigned, ok := r.entries[guildID]
	r.mu.RUnlock()

	if ok && channelID != assigned {
		return Reject
	}
	return Admit
}

// ReplyChannel reports the channel currently assigned to a guild.
func (r *Router) ReplyChannel(guildID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.entries[guildID]
	return ch, ok
}
