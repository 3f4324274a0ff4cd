package prompt

import (
	"gamemaster-server/internal/model"
)

// Role of one windowed turn as the model template sees it.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversational exchange half inside the context window.
type Turn struct {
	Role Role
	Text string
}

// DefaultWindowTurns caps the history at 10 user + 10 assistant exchanges.
const DefaultWindowTurns = 20

// maxLookback bounds the backward scan for the loop-start marker. The scan is
// O(window), not O(log); at this scale no index is needed.
const maxLookback = 500

// BeginningMarker is rendered in place of an empty history so the model never
// sees an empty or garbled window.
const BeginningMarker = "This is the very beginning of the story."

// Window turns the append-only event log into a bounded, oldest-first list of
// user/assistant turns:
//   - only user and bot events survive, internal actions are dropped;
//   - history is scoped to events after the most recent loop-start marker, so
//     character-creation chatter never leaks into the narrator's memory;
//   - the trailing user event is the in-flight utterance and is excluded (the
//     assembler appends it separately at the end of the prompt);
//   - the remainder is capped to the last limit turns, most recent retained.
//
// Short or empty histories are valid and return an empty slice.
func Window(events []model.Event, limit int) []Turn {
	if limit <= 0 {
		limit = DefaultWindowTurns
	}

	start := 0
	scanned := 0
	for i := len(events) - 1; i >= 0 && scanned < maxLookback; i-- {
		if events[i].Kind == model.EventLoopStart {
			start = i + 1
			break
		}
		scanned++
	}

	turns := make([]Turn, 0, limit)
	for _, ev := range events[start:] {
		switch ev.Kind {
		case model.EventUser:
			if ev.Text != "" {
				turns = append(turns, Turn{Role: RoleUser, Text: ev.Text})
			}
		case model.EventBot:
			if ev.Text != "" {
				turns = append(turns, Turn{Role: RoleAssistant, Text: ev.Text})
			}
		}
	}

	// The engine appends the inbound utterance to the log before windowing,
	// so the final user turn is always the in-flight one.
	if n := len(turns); n > 0 && turns[n-1].Role == RoleUser {
		turns = turns[:n-1]
	}

	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
