package prompt

import (
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"gamemaster-server/internal/model"
)

// tokenizer encoding used for budget estimation. The exact model tokenizer is
// unknown here; cl100k_base is close enough for a budget check.
const budgetEncoding = "cl100k_base"

// Assembler renders a session's state into one model-ready prompt string. It
// is template-parametric: the variant and window size are configuration, not
// code.
type Assembler struct {
	template    Template
	windowTurns int
	tokenBudget int
	logger      *zap.Logger
}

// NewAssembler creates an Assembler. tokenBudget <= 0 disables the budget
// check; windowTurns <= 0 falls back to DefaultWindowTurns.
func NewAssembler(template Template, windowTurns, tokenBudget int, logger *zap.Logger) *Assembler {
	if windowTurns <= 0 {
		windowTurns = DefaultWindowTurns
	}
	return &Assembler{
		template:    template,
		windowTurns: windowTurns,
		tokenBudget: tokenBudget,
		logger:      logger.Named("Assembler"),
	}
}

// Template returns the active template, so callers can align their stop
// sequences with it.
func (a *Assembler) Template() Template {
	return a.template
}

// Assemble windows the session's event log and renders the prompt for the
// given in-flight utterance. When a token budget is configured and exceeded,
// the oldest windowed turns are dropped pairwise until the prompt fits (or no
// history remains).
func (a *Assembler) Assemble(session *model.Session, current string) string {
	system := BuildSystemPrompt(SystemPromptDataFromSession(session))
	history := Window(session.Events, a.windowTurns)

	rendered := a.template.Render(system, history, current)
	if a.tokenBudget <= 0 {
		return rendered
	}

	for {
		tokens := a.estimateTokens(rendered)
		if tokens <= a.tokenBudget || len(history) == 0 {
			if tokens > a.tokenBudget {
				a.logger.Warn("Prompt exceeds token budget even with empty history",
					zap.Int("tokens", tokens), zap.Int("budget", a.tokenBudget))
			}
			return rendered
		}
		a.logger.Debug("Prompt over token budget, dropping oldest turns",
			zap.Int("tokens", tokens), zap.Int("budget", a.tokenBudget), zap.Int("turns", len(history)))
		if len(history) > 2 {
			history = history[2:]
		} else {
			history = nil
		}
		rendered = a.template.Render(system, history, current)
	}
}

// estimateTokens approximates the prompt's token count. On tokenizer failure
// it falls back to a bytes/4 heuristic rather than blocking assembly.
func (a *Assembler) estimateTokens(text string) int {
	tke, err := tiktoken.GetEncoding(budgetEncoding)
	if err != nil {
		a.logger.Warn("Could not load tokenizer for budget estimation", zap.Error(err))
		return len(text) / 4
	}
	return len(tke.Encode(text, nil, nil))
}
