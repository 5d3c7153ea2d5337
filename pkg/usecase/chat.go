package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/jari1882/simkb/pkg/agent/tool"
	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
	"github.com/jari1882/simkb/pkg/utils/logging"
	"github.com/jari1882/simkb/pkg/utils/retry"
)

//go:embed prompt/navigator_system.md
var navigatorSystemPromptTmpl string

var navigatorSystemPrompt = template.Must(template.New("navigator_system").Parse(navigatorSystemPromptTmpl))

type promptTurn struct {
	Role string
	Text string
}

type promptData struct {
	Mode  string
	Turns []promptTurn
}

// Chat answers one question within a session. The mode is classified from
// the message text, the session history is rendered into the system
// prompt, and the exchange is committed to the session only after the
// agent succeeds. A failed turn leaves the history untouched.
func (uc *UseCase) Chat(ctx context.Context, sessionID, message string) (string, error) {
	logger := logging.From(ctx)

	mode := ClassifyMode(message)
	logger.Debug("classified question",
		"session_id", sessionID,
		"mode", mode.String(),
	)

	systemPrompt, err := uc.buildSystemPrompt(mode, uc.sessions.Snapshot(sessionID))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build system prompt")
	}

	// Tool progress messages surface as debug logs.
	ctx = tool.WithUpdate(ctx, func(ctx context.Context, msg string) {
		logging.From(ctx).Debug("tool progress", "message", msg)
	})

	agent := gollem.New(uc.llm,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(uc.tools...),
		gollem.WithToolMiddleware(
			func(next gollem.ToolHandler) gollem.ToolHandler {
				return func(ctx context.Context, req *gollem.ToolExecRequest) (*gollem.ToolExecResponse, error) {
					logger.Debug("executing tool", "tool", req.Tool.Name)
					resp, err := next(ctx, req)
					if resp != nil && resp.Error != nil {
						logger.Warn("tool returned error", "tool", req.Tool.Name, "error", resp.Error.Error())
					}
					return resp, err
				}
			},
		),
	)

	var answer string
	err = retry.Do(ctx, uc.maxAttempts, uc.baseDelay, func(ctx context.Context) error {
		resp, err := agent.Execute(ctx, gollem.Text(message))
		if err != nil {
			return err
		}
		answer = strings.Join(resp.Texts, "\n")
		return nil
	})
	if err != nil {
		logger.Error("agent execution failed after retries",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return "", goerr.Wrap(ErrAssistantUnavailable, "agent execution failed",
			goerr.V("session_id", sessionID),
			goerr.V("cause", err.Error()),
		)
	}

	uc.sessions.Commit(sessionID, message, answer)
	return answer, nil
}

func (uc *UseCase) buildSystemPrompt(mode types.AnswerMode, turns []model.Turn) (string, error) {
	if uc.historyMax > 0 && len(turns) > uc.historyMax {
		turns = turns[len(turns)-uc.historyMax:]
	}

	data := promptData{
		Mode:  mode.String(),
		Turns: make([]promptTurn, 0, len(turns)),
	}
	for _, turn := range turns {
		data.Turns = append(data.Turns, promptTurn{
			Role: string(turn.Role),
			Text: turn.Text,
		})
	}

	var buf bytes.Buffer
	if err := navigatorSystemPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return buf.String(), nil
}
