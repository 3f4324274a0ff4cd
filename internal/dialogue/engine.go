package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/messaging"
	"gamemaster-server/internal/model"
	"gamemaster-server/internal/narrator"
	"gamemaster-server/internal/prompt"
	"gamemaster-server/internal/repository"
	"gamemaster-server/internal/worker"
)

// FallbackMessage is the fixed in-character reply when the narrator backend
// is unavailable or generation fails. Technical details go to the logs, never
// to the player.
const FallbackMessage = "A magical disturbance clouds the Dungeon Master's senses... Give him a moment and try again."

// WelcomeMessage opens a fresh session.
const WelcomeMessage = "Welcome, adventurer! Let's create your character."

// openingInstruction is the pseudo-utterance that requests the scene-setting
// narration right after character creation.
const openingInstruction = "Begin the adventure. Set the opening scene and ask the player what they do."

// Generator is the narrow generation capability the engine needs; satisfied
// by *narrator.Invoker.
type Generator interface {
	Generate(ctx context.Context, promptText string, params narrator.GenerationParams) (string, error)
}

// TurnResult is what one inbound utterance produces: the outgoing messages in
// order plus a snapshot of the session's slot values.
type TurnResult struct {
	SessionID uuid.UUID         `json:"session_id"`
	Messages  []string          `json:"messages"`
	Slots     map[string]string `json:"slots"`
}

// Engine orchestrates a turn: routes the utterance through the creation form
// or the adventure loop, and drives the narrator path when the form is done.
type Engine struct {
	sessions  repository.SessionRepository
	validator *SlotValidator
	form      *FormController
	prompter  *Prompter
	help      *HelpResponder
	assembler *prompt.Assembler
	generator Generator
	pool      *worker.Pool
	publisher messaging.TurnPublisher
	logger    *zap.Logger

	// One mutex per session: turns for the same session are processed to
	// completion in order, while unrelated sessions proceed in parallel.
	locks sync.Map
}

// EngineParams collects the engine's collaborators.
type EngineParams struct {
	Catalog   *catalog.Catalog
	Sessions  repository.SessionRepository
	Assembler *prompt.Assembler
	Generator Generator
	Pool      *worker.Pool
	Publisher messaging.TurnPublisher
	Logger    *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(p EngineParams) *Engine {
	validator := NewSlotValidator(p.Catalog)
	return &Engine{
		sessions:  p.Sessions,
		validator: validator,
		form:      NewFormController(validator),
		prompter:  NewPrompter(p.Catalog),
		help:      NewHelpResponder(p.Catalog),
		assembler: p.Assembler,
		generator: p.Generator,
		pool:      p.Pool,
		publisher: p.Publisher,
		logger:    p.Logger.Named("DialogueEngine"),
	}
}

// HandleTurn processes one inbound utterance for a session to completion.
func (e *Engine) HandleTurn(ctx context.Context, sessionID uuid.UUID, text string) (*TurnResult, error) {
	unlock := e.lockSession(sessionID)
	defer unlock()

	session, err := e.sessions.Get(ctx, sessionID)
	fresh := false
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		session = model.NewSession(sessionID)
		fresh = true
	case err != nil:
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	result := &TurnResult{SessionID: sessionID, Messages: []string{}}

	trimmed := strings.TrimSpace(text)
	session.AppendUser(trimmed)

	switch {
	case isHelpRequest(trimmed):
		e.emit(session, result, e.help.Hint(session))
	case isSetCommand(trimmed):
		e.handleSetCommand(session, result, trimmed)
	case !e.form.Complete(session):
		e.handleCreationTurn(ctx, session, result, trimmed, fresh)
	default:
		e.narrate(ctx, session, result, narrator.ModeAdventure, trimmed)
	}

	result.Slots = snapshotSlots(session)
	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return result, nil
}

// emit records an outgoing message both in the result and in the event log.
func (e *Engine) emit(session *model.Session, result *TurnResult, message string) {
	if message == "" {
		return
	}
	session.AppendBot(message)
	result.Messages = append(result.Messages, message)
}

func (e *Engine) handleCreationTurn(ctx context.Context, session *model.Session, result *TurnResult, text string, fresh bool) {
	requested := session.Slot(model.SlotRequested)

	// First contact: activate the form. A greeting (or empty utterance) gets
	// the welcome plus the first question; anything else is taken directly as
	// the answer to the first unset slot.
	if requested == "" {
		if fresh || !session.InLoop(model.LoopCharacterCreation) {
			session.StartLoop(model.LoopCharacterCreation)
		}
		if isGreeting(text) {
			e.emit(session, result, WelcomeMessage)
			e.askNext(ctx, session, result)
			return
		}
		next, ok := e.form.NextSlot(session)
		if !ok {
			e.finishCreation(ctx, session, result)
			return
		}
		session.SetSlot(model.SlotRequested, next)
		requested = next
	}

	res := e.validator.Validate(requested, text, session)
	if !res.Accepted {
		// Rejection resets the slot so the loop re-asks; never fatal.
		session.ClearSlot(requested)
		e.emit(session, result, res.Message)
		e.emit(session, result, e.prompter.AskFor(requested, session))
		return
	}

	applyResult(session, requested, res)
	e.emit(session, result, e.prompter.Confirmation(requested, session))
	e.askNext(ctx, session, result)
}

// askNext advances the form to the next unset slot, or finishes creation when
// none remain.
func (e *Engine) askNext(ctx context.Context, session *model.Session, result *TurnResult) {
	next, ok := e.form.NextSlot(session)
	if !ok {
		e.finishCreation(ctx, session, result)
		return
	}
	session.SetSlot(model.SlotRequested, next)
	e.emit(session, result, e.prompter.AskFor(next, session))
}

// finishCreation recaps the finished sheet, switches to the adventure loop
// and requests the opening narration.
func (e *Engine) finishCreation(ctx context.Context, session *model.Session, result *TurnResult) {
	e.emit(session, result, abilitiesRecap(session))

	session.StartLoop(model.LoopAdventure)
	session.SetSlot(model.SlotRequested, model.SlotAdventureText)

	e.narrate(ctx, session, result, narrator.ModeOpening, openingInstruction)
}

// narrate runs the narrator path: window + assemble + generate on a worker.
// On failure the adventure slot is left unset so the same input can simply be
// retried; the player only ever sees the fixed fallback message.
func (e *Engine) narrate(ctx context.Context, session *model.Session, result *TurnResult, mode, current string) {
	promptText := e.assembler.Assemble(session, current)
	stops := e.assembler.Template().StopSequences()

	var params narrator.GenerationParams
	if mode == narrator.ModeOpening {
		params = narrator.OpeningParams(stops)
	} else {
		params = narrator.AdventureParams(stops)
	}

	text, err := e.pool.Do(ctx, func(ctx context.Context) (string, error) {
		return e.generator.Generate(ctx, promptText, params)
	})
	if err != nil {
		e.logger.Error("Narration failed",
			zap.Stringer("sessionID", session.ID),
			zap.String("mode", mode),
			zap.Error(err),
		)
		session.ClearSlot(model.SlotAdventureText)
		e.emit(session, result, FallbackMessage)
		return
	}

	e.emit(session, result, text)

	// Deliberate infinite single-slot re-ask cycle: clearing the slot keeps
	// the adventure loop alive for as long as the session is.
	session.ClearSlot(model.SlotAdventureText)

	if err := e.publisher.PublishTurn(ctx, messaging.TurnEvent{
		SessionID: session.ID.String(),
		Mode:      mode,
		UserText:  current,
		BotText:   text,
		At:        time.Now().UTC(),
	}); err != nil {
		// Best effort only: a broker outage never affects the player's turn.
		e.logger.Warn("Failed to publish turn event", zap.Error(err), zap.Stringer("sessionID", session.ID))
	}
}

func (e *Engine) handleSetCommand(session *model.Session, result *TurnResult, text string) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		e.emit(session, result, "Usage: set <theme|difficulty|nb_players|language> <value>")
		return
	}

	slot := strings.ToLower(fields[1])
	value := strings.Join(fields[2:], " ")
	switch slot {
	case model.SlotTheme, model.SlotDifficulty, model.SlotNbPlayers, model.SlotLanguage:
		session.SetSlot(slot, value)
		e.emit(session, result, fmt.Sprintf("%s set to %s.", capitalize(slot), value))
	default:
		e.emit(session, result, fmt.Sprintf("Cannot set %q. Settable: theme, difficulty, nb_players, language.", fields[1]))
	}
}

func (e *Engine) lockSession(id uuid.UUID) func() {
	value, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func isHelpRequest(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "help", "hint", "/help":
		return true
	}
	return false
}

func isSetCommand(text string) bool {
	return strings.HasPrefix(strings.ToLower(text), "set ")
}

func isGreeting(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "hi", "hello", "hey", "start", "begin":
		return true
	}
	return false
}

// abilitiesRecap mirrors the sheet back to the player once every slot is
// collected.
func abilitiesRecap(session *model.Session) string {
	var b strings.Builder
	b.WriteString("Your character is ready!\n")
	fmt.Fprintf(&b, "- Race: %s (%s)\n", session.Slot(model.SlotRace), session.Slot(model.SlotSubrace))
	fmt.Fprintf(&b, "- Class: %s\n", session.Slot(model.SlotClass))
	fmt.Fprintf(&b, "- Weapon: %s\n", session.Slot(model.SlotWeapon))
	fmt.Fprintf(&b, "- Major attribute: %s\n", session.Slot(model.SlotAttribute))
	if ability := session.Slot(model.SlotAbilityClass); ability != "" {
		fmt.Fprintf(&b, "- Class ability: %s\n", ability)
	}
	if ability := session.Slot(model.SlotAbilitySubrace); ability != "" {
		fmt.Fprintf(&b, "- Racial ability: %s\n", ability)
	}
	b.WriteString("The adventure begins...")
	return b.String()
}

func snapshotSlots(session *model.Session) map[string]string {
	slots := make(map[string]string, len(session.Slots))
	for name, value := range session.Slots {
		slots[name] = value
	}
	return slots
}
