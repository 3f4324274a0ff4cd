package prompt_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamemaster-server/internal/model"
	"gamemaster-server/internal/prompt"
)

func TestWindowCapsToLastTurns(t *testing.T) {
	var events []model.Event
	// 30 alternating user/bot turns, then the in-flight utterance.
	for i := 1; i <= 15; i++ {
		events = append(events,
			model.Event{Kind: model.EventUser, Text: fmt.Sprintf("user %d", i)},
			model.Event{Kind: model.EventBot, Text: fmt.Sprintf("bot %d", i)},
		)
	}
	events = append(events, model.Event{Kind: model.EventUser, Text: "current"})

	turns := prompt.Window(events, 20)

	require.Len(t, turns, 20)
	// Oldest-first, most recent retained, in-flight utterance excluded.
	assert.Equal(t, "user 6", turns[0].Text)
	assert.Equal(t, prompt.RoleUser, turns[0].Role)
	assert.Equal(t, "bot 15", turns[19].Text)
	assert.Equal(t, prompt.RoleAssistant, turns[19].Role)
	for _, turn := range turns {
		assert.NotEqual(t, "current", turn.Text)
	}
}

func TestWindowScopesToLoopStart(t *testing.T) {
	events := []model.Event{
		{Kind: model.EventUser, Text: "creation chatter"},
		{Kind: model.EventBot, Text: "pick a race"},
		{Kind: model.EventLoopStart, Name: model.LoopAdventure},
		{Kind: model.EventUser, Text: "I enter the cave"},
		{Kind: model.EventBot, Text: "It is dark inside."},
		{Kind: model.EventUser, Text: "current"},
	}

	turns := prompt.Window(events, 20)

	require.Len(t, turns, 2)
	assert.Equal(t, "I enter the cave", turns[0].Text)
	assert.Equal(t, "It is dark inside.", turns[1].Text)
}

func TestWindowDropsActionEvents(t *testing.T) {
	events := []model.Event{
		{Kind: model.EventUser, Text: "hello"},
		{Kind: model.EventAction, Name: "validate_slot"},
		{Kind: model.EventBot, Text: "hi"},
		{Kind: model.EventUser, Text: "current"},
	}

	turns := prompt.Window(events, 20)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, "hi", turns[1].Text)
}

func TestWindowOnShortLogs(t *testing.T) {
	t.Run("empty log", func(t *testing.T) {
		assert.Empty(t, prompt.Window(nil, 20))
	})

	t.Run("single in-flight turn", func(t *testing.T) {
		events := []model.Event{{Kind: model.EventUser, Text: "current"}}
		assert.Empty(t, prompt.Window(events, 20))
	})
}

// An empty window must surface the beginning-of-story marker in the rendered
// prompt, never an empty history section.
func TestEmptyWindowRendersBeginningMarker(t *testing.T) {
	session := model.NewSession(uuid.New())
	session.StartLoop(model.LoopAdventure)
	session.AppendUser("I look around")

	for _, name := range []string{prompt.TemplateLlama3, prompt.TemplateMistral} {
		t.Run(name, func(t *testing.T) {
			template, err := prompt.ForName(name)
			require.NoError(t, err)

			assembler := prompt.NewAssembler(template, prompt.DefaultWindowTurns, 0, zap.NewNop())
			rendered := assembler.Assemble(session, "I look around")
			assert.Contains(t, rendered, prompt.BeginningMarker)
		})
	}
}
