package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yukifw/ragbot/internal/models"
	"github.com/yukifw/ragbot/internal/textutil"
	"github.com/yukifw/ragbot/internal/types"
	"github.com/yukifw/ragbot/pkg/llm"
	"github.com/yukifw/ragbot/pkg/prompt"
)

const maxFailureDetail = 200

type PipelineConfig struct {
	SearchCount   int
	TopURLs       int
	Persona       string
	AlwaysAugment bool
}

// Pipeline runs one inbound message through classify, search, extract,
// assemble, and generate. It keeps no state between invocations.
type Pipeline struct {
	config    PipelineConfig
	searcher  types.Searcher
	extractor types.Extractor
	generator types.Generator
	assembler *prompt.Assembler
	logger    *zap.Logger
}

func New(config PipelineConfig, searcher types.Searcher, extractor types.Extractor,
	generator types.Generator, assembler *prompt.Assembler, logger *zap.Logger) *Pipeline {
	if config.SearchCount == 0 {
		config.SearchCount = 3
	}
	if config.TopURLs == 0 {
		config.TopURLs = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		config:    config,
		searcher:  searcher,
		extractor: extractor,
		generator: generator,
		assembler: assembler,
		logger:    logger,
	}
}

// Handle classifies the message and produces exactly one outcome. Search
// and extraction failures degrade the prompt; only classification and
// generation failures terminate the invocation.
func (p *Pipeline) Handle(ctx context.Context, text string) models.Outcome {
	logger := p.logger.With(zap.String("request_id", uuid.NewString()))

	kind, query := Classify(text, p.config.AlwaysAugment)
	if query == "" {
		return models.Failed(models.StageClassify, "empty query")
	}

	promptCtx := models.PromptContext{Query: query}

	if kind == Augmented {
		snippets, err := p.searcher.Search(ctx, query, p.config.SearchCount)
		if err != nil {
			// Degraded mode: the model can still answer from its own
			// knowledge, so a failed search never aborts the invocation.
			logger.Warn("search unavailable, continuing without snippets", zap.Error(err))
			snippets = nil
		}
		promptCtx.Snippets = snippets
		promptCtx.Pages = p.extractTop(ctx, snippets, logger)
	}

	assembled := p.assembler.Assemble(promptCtx)

	answer, err := p.generator.Generate(ctx, p.config.Persona, assembled)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		detail := err.Error()
		if errors.Is(err, llm.ErrRateLimited) {
			detail = "the model is currently rate limited, please try again later"
		}
		return models.Failed(models.StageGenerate, textutil.TruncateRunes(detail, maxFailureDetail))
	}

	logger.Info("answered",
		zap.Int("snippets", len(promptCtx.Snippets)),
		zap.Int("pages", len(promptCtx.Pages)))
	return models.Answered(answer)
}

// extractTop fetches the first TopURLs result pages concurrently. Each
// page reports its own status; a failed URL never blocks its siblings.
func (p *Pipeline) extractTop(ctx context.Context, snippets []models.SearchResult, logger *zap.Logger) []models.ExtractedPage {
	n := p.config.TopURLs
	if n > len(snippets) {
		n = len(snippets)
	}
	if n <= 0 {
		return nil
	}

	pages := make([]models.ExtractedPage, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		url := snippets[i].URL
		g.Go(func() error {
			pages[i] = p.extractor.Extract(gctx, url)
			return nil
		})
	}
	_ = g.Wait()

	for _, page := range pages {
		if page.Status != models.PageOK {
			logger.Warn("page excluded from prompt",
				zap.String("url", page.SourceURL),
				zap.String("status", page.Status.String()))
		}
	}
	return pages
}
