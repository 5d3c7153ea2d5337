// Package usecase drives the navigator: it classifies each question into
// an answer mode, runs the tool-calling agent with the session's history,
// and manages per-session conversation state.
package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool/kb"
	"github.com/jari1882/simkb/pkg/domain/interfaces"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/service/search"
)

type UseCase struct {
	repo     interfaces.Repository
	llm      gollem.LLMClient
	engine   *search.Engine
	tools    []gollem.Tool
	sessions *sessionStore

	maxAttempts int
	baseDelay   time.Duration
	historyMax  int
}

type Option func(*UseCase)

func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(uc *UseCase) {
		uc.maxAttempts = attempts
		uc.baseDelay = baseDelay
	}
}

// WithHistoryLimit caps how many turns feed the system prompt.
func WithHistoryLimit(n int) Option {
	return func(uc *UseCase) { uc.historyMax = n }
}

func New(repo interfaces.Repository, llm gollem.LLMClient, opts ...Option) *UseCase {
	engine := search.New(llm, repo)
	uc := &UseCase{
		repo:        repo,
		llm:         llm,
		engine:      engine,
		tools:       kb.New(repo, engine),
		sessions:    newSessionStore(),
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		historyMax:  10,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reset truncates a session's history. Returns whether it existed.
func (uc *UseCase) Reset(sessionID string) bool {
	return uc.sessions.Reset(sessionID)
}

// Stats reports knowledge base counts. Conversation state is not part of
// the stats; they answer "what is loaded", not "what was said".
func (uc *UseCase) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}

	counts := []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&stats.Organizations, uc.repo.Organization().Count},
		{&stats.Products, uc.repo.Product().Count},
		{&stats.Roles, uc.repo.Role().Count},
		{&stats.Documents, uc.repo.Document().Count},
		{&stats.Offers, uc.repo.Offer().Count},
		{&stats.Embeddings, uc.repo.Embedding().Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}

const helpText = `I answer questions about insurance carrier performance.

Ask me about:
- Carrier scorecards: "What was Carrier A's Annuity performance?"
- Question comparisons: "For underwriting, how did Carrier A perform relative to other companies?"
- Production history: "How much Annuity premium did Carrier B write?"
- Carrier research: "What does the research say about Carrier C?"

Commands: "clear" resets this conversation, "stats" shows what is loaded, "help" shows this message.`

// Help returns the static capability summary.
func (uc *UseCase) Help() string {
	return helpText
}
