package dialogue

import (
	"strings"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/model"
)

// CreationSlots is the character-creation collection order. The order is an
// explicit product decision, not alphabetical: each slot may depend on the
// ones before it (subrace on race, weapon on class).
var CreationSlots = []string{
	model.SlotRace,
	model.SlotSubrace,
	model.SlotClass,
	model.SlotWeapon,
	model.SlotAttribute,
}

// FormController drives one-slot-at-a-time collection over CreationSlots.
type FormController struct {
	validator *SlotValidator
}

// NewFormController creates a FormController.
func NewFormController(validator *SlotValidator) *FormController {
	return &FormController{validator: validator}
}

// Complete reports whether every required creation slot has a value.
func (f *FormController) Complete(session *model.Session) bool {
	for _, slot := range CreationSlots {
		if !session.SlotSet(slot) {
			return false
		}
	}
	return true
}

// NextSlot returns the next unset required slot, or ok=false when the form is
// complete. When the next slot is subrace and the race is human, the slot is
// auto-derived in place (subrace "none", versatile ability) and the scan
// continues, so the player is never asked for it.
func (f *FormController) NextSlot(session *model.Session) (string, bool) {
	for _, slot := range CreationSlots {
		if session.SlotSet(slot) {
			continue
		}
		if slot == model.SlotSubrace && isHumanRace(session) {
			res := f.validator.Validate(model.SlotSubrace, "", session)
			if res.Accepted {
				applyResult(session, model.SlotSubrace, res)
				continue
			}
		}
		return slot, true
	}
	return "", false
}

func isHumanRace(session *model.Session) bool {
	return catalog.Race(strings.ToLower(session.Slot(model.SlotRace))) == catalog.RaceHuman
}

// applyResult stores an accepted value and its derived slots.
func applyResult(session *model.Session, slot string, res ValidationResult) {
	session.SetSlot(slot, res.Value)
	for name, value := range res.Derived {
		session.SetSlot(name, value)
	}
}
