package dialogue

import (
	"fmt"
	"strings"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/model"
)

// HelpResponder produces a contextual hint for the slot currently being
// collected. Pure read path: it never mutates the session or the form.
type HelpResponder struct {
	catalog *catalog.Catalog
}

// NewHelpResponder creates a HelpResponder.
func NewHelpResponder(cat *catalog.Catalog) *HelpResponder {
	return &HelpResponder{catalog: cat}
}

// Hint returns help text for the outstanding slot. The requested-slot pointer
// is used when present; otherwise the first unset required slot is a
// best-effort guess. Falls back to a generic message when neither works.
func (h *HelpResponder) Hint(session *model.Session) string {
	slot := session.Slot(model.SlotRequested)
	if slot == "" {
		for _, s := range CreationSlots {
			if !session.SlotSet(s) {
				slot = s
				break
			}
		}
	}

	switch slot {
	case model.SlotRace:
		return fmt.Sprintf("You are choosing your race. Valid choices: %s. For example, say \"elf\".",
			joinRaces(h.catalog.Races()))
	case model.SlotSubrace:
		race := catalog.Race(strings.ToLower(session.Slot(model.SlotRace)))
		subraces := h.catalog.SubracesFor(race)
		if len(subraces) == 0 {
			return "You are choosing your legacy, but I need your race first. For example, say \"elf\"."
		}
		return fmt.Sprintf("You are choosing your legacy. Valid choices for a %s: %s. For example, say \"%s\".",
			session.Slot(model.SlotRace), joinSubraces(subraces), subraces[0])
	case model.SlotClass:
		return fmt.Sprintf("You are choosing your class. Valid choices: %s. For example, say \"wizard\".",
			joinClasses(h.catalog.Classes()))
	case model.SlotWeapon:
		class := catalog.Class(strings.ToLower(session.Slot(model.SlotClass)))
		weapons := h.catalog.WeaponsFor(class)
		if len(weapons) == 0 {
			return "You are choosing your weapon. Any weapon goes for your class. For example, say \"sword\"."
		}
		return fmt.Sprintf("You are choosing your weapon. Valid choices for a %s: %s. For example, say \"%s\".",
			session.Slot(model.SlotClass), joinWeapons(weapons), weapons[0])
	case model.SlotAttribute:
		return "You are naming your major attribute, any word of at least two letters. For example, say \"strength\"."
	case model.SlotAdventureText:
		return "The adventure is underway. Describe what your character does next, e.g. \"I search the room\"."
	default:
		return "I'm not sure which step you're on. Tell me which step you're on, or just answer the last question."
	}
}
