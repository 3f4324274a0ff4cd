package model

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies entries in the session event log.
type EventKind string

const (
	EventUser      EventKind = "user"
	EventBot       EventKind = "bot"
	EventAction    EventKind = "action"
	EventLoopStart EventKind = "active_loop_start"
)

// Event is one immutable record of the append-only conversation log. Order in
// the slice is the only timestamp that matters to the context window.
type Event struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text,omitempty"`
	Name string    `json:"name,omitempty"`
}

// Slot names collected during character creation and play.
const (
	SlotRace       = "race"
	SlotSubrace    = "subrace"
	SlotClass      = "class"
	SlotWeapon     = "weapon"
	SlotAttribute  = "attribute"
	SlotTheme      = "theme"
	SlotDifficulty = "difficulty"
	SlotNbPlayers  = "nb_players"
	SlotLanguage   = "language"

	// Derived slots, filled by the validator, never asked for directly.
	SlotAbilityClass   = "ability_class"
	SlotAbilitySubrace = "ability_subrace"

	// SlotAdventureText carries the in-character turn. It is cleared after
	// every narration so the adventure loop re-asks forever.
	SlotAdventureText = "adventure_text"

	// SlotRequested points at the slot the form is currently collecting.
	SlotRequested = "requested_slot"
)

// Loop names recorded in EventLoopStart markers.
const (
	LoopCharacterCreation = "character_creation_form"
	LoopAdventure         = "adventure_form"
)

// Session is the per-conversation state: the slot map plus the full event
// log. Created on first contact and mutated by every turn; it is never
// explicitly destroyed (the repository decides retention).
type Session struct {
	ID        uuid.UUID         `json:"id"`
	Slots     map[string]string `json:"slots"`
	Events    []Event           `json:"events"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id uuid.UUID) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Slots:     make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Slot returns the value of a slot, empty string when unset.
func (s *Session) Slot(name string) string {
	return s.Slots[name]
}

// SlotSet reports whether a slot has a value.
func (s *Session) SlotSet(name string) bool {
	return s.Slots[name] != ""
}

// SetSlot stores a slot value.
func (s *Session) SetSlot(name, value string) {
	s.Slots[name] = value
}

// ClearSlot resets a slot to unset.
func (s *Session) ClearSlot(name string) {
	delete(s.Slots, name)
}

// Append adds an event to the log.
func (s *Session) Append(ev Event) {
	s.Events = append(s.Events, ev)
}

// AppendUser and AppendBot are shorthands for the two conversational kinds.
func (s *Session) AppendUser(text string) { s.Append(Event{Kind: EventUser, Text: text}) }
func (s *Session) AppendBot(text string)  { s.Append(Event{Kind: EventBot, Text: text}) }

// StartLoop records an active-loop-start marker in the log.
func (s *Session) StartLoop(name string) {
	s.Append(Event{Kind: EventLoopStart, Name: name})
}

// InLoop reports whether the most recent loop-start marker names the given
// loop. Linear backward scan; the log is short-lived per conversation.
func (s *Session) InLoop(name string) bool {
	for i := len(s.Events) - 1; i >= 0; i-- {
		if s.Events[i].Kind == EventLoopStart {
			return s.Events[i].Name == name
		}
	}
	return false
}
