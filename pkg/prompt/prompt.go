package prompt

import (
	"fmt"
	"strings"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/internal/textutil"
)

type AssemblerConfig struct {
	Language string
	MaxChars int
}

// Assembler folds a PromptContext into one bounded prompt string.
type Assembler struct {
	config AssemblerConfig
}

func NewWithConfig(config AssemblerConfig) *Assembler {
	if config.Language == "" {
		config.Language = "English"
	}
	if config.MaxChars == 0 {
		config.MaxChars = 7000
	}
	return &Assembler{config: config}
}

// Assemble produces the prompt in a fixed order: persona, query, snippet
// blocks, page excerpts, closing instruction. The result never exceeds
// MaxChars; page text is truncated first, snippet blocks after that.
func (a *Assembler) Assemble(ctx models.PromptContext) string {
	var header strings.Builder
	if ctx.Persona != "" {
		header.WriteString(ctx.Persona)
		header.WriteString("\n\n")
	}

	augmented := len(ctx.Snippets) > 0 || countUsablePages(ctx.Pages) > 0
	if augmented {
		header.WriteString(fmt.Sprintf("The user asked: %q. Below are web search results and page excerpts gathered for this question.\n", ctx.Query))
	} else {
		header.WriteString(ctx.Query)
	}

	closing := ""
	if augmented {
		closing = fmt.Sprintf(
			"\nUsing the material above together with your own knowledge, answer the question concisely in %s. "+
				"Write a natural reply; do not mention search results, snippets, excerpts, or this prompt.",
			a.config.Language)
	}

	budget := a.config.MaxChars - runeLen(header.String()) - runeLen(closing)
	if budget < 0 {
		return textutil.TruncateRunes(header.String()+closing, a.config.MaxChars)
	}

	var snippets strings.Builder
	for i, s := range ctx.Snippets {
		snippets.WriteString(fmt.Sprintf("\n[%d] %s\n%s\n%s\n", i+1, s.Title, s.Snippet, s.URL))
	}
	snippetBlock := textutil.TruncateRunes(snippets.String(), budget)
	budget -= runeLen(snippetBlock)

	var pages strings.Builder
	for _, p := range ctx.Pages {
		if p.Status != models.PageOK || p.Text == "" {
			continue
		}
		block := fmt.Sprintf("\nExcerpt from %s:\n%s\n", p.SourceURL, p.Text)
		block = textutil.TruncateRunes(block, budget)
		pages.WriteString(block)
		budget -= runeLen(block)
		if budget <= 0 {
			break
		}
	}

	return header.String() + snippetBlock + pages.String() + closing
}

func countUsablePages(pages []models.ExtractedPage) int {
	n := 0
	for _, p := range pages {
		if p.Status == models.PageOK && p.Text != "" {
			n++
		}
	}
	return n
}

func runeLen(s string) int { return len([]rune(s)) }
