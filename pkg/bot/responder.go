package bot

import (
	"fmt"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/internal/textutil"
)

// maxMessageLength is the platform's hard cap on one outbound message.
const maxMessageLength = 2000

// formatOutcome renders the pipeline result as one platform-safe message.
// Failures become plain-language text naming the stage, never an exception
// surfaced to the channel.
func formatOutcome(outcome models.Outcome) string {
	if !outcome.Failed() {
		return textutil.TruncateRunes(outcome.Answer(), maxMessageLength)
	}

	stage, detail := outcome.Failure()
	text := fmt.Sprintf("Sorry, something went wrong while %s: %s", stage, detail)
	return textutil.TruncateRunes(text, maxMessageLength)
}
