package dialogue

import (
	"fmt"
	"strings"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/model"
)

// Prompter produces the question text for each creation slot, enumerating the
// catalog-derived options. The same choice lists the transport layer may turn
// into buttons or quick replies.
type Prompter struct {
	catalog *catalog.Catalog
}

// NewPrompter creates a Prompter.
func NewPrompter(cat *catalog.Catalog) *Prompter {
	return &Prompter{catalog: cat}
}

// AskFor returns the prompt for the given slot in the session's context.
func (p *Prompter) AskFor(slot string, session *model.Session) string {
	switch slot {
	case model.SlotRace:
		return p.askRace()
	case model.SlotSubrace:
		return p.askSubrace(session)
	case model.SlotClass:
		return p.askClass()
	case model.SlotWeapon:
		return p.askWeapon(session)
	case model.SlotAttribute:
		return "Finally, name your character's major attribute (e.g. Strength, Cunning, Charisma):"
	default:
		return "Tell me more about your character."
	}
}

func (p *Prompter) askRace() string {
	names := make([]string, 0, len(p.catalog.Races()))
	for _, race := range p.catalog.Races() {
		names = append(names, capitalize(string(race)))
	}
	return fmt.Sprintf("Choose a race for your character (%s):", strings.Join(names, ", "))
}

func (p *Prompter) askSubrace(session *model.Session) string {
	raceSlot := session.Slot(model.SlotRace)
	if raceSlot == "" {
		return "I cannot determine your current race. Which race are you?"
	}

	race := catalog.Race(strings.ToLower(raceSlot))
	subraces := p.catalog.SubracesFor(race)

	var b strings.Builder
	fmt.Fprintf(&b, "As a %s, choose your legacy:\n", raceSlot)
	for _, sr := range subraces {
		ability, ok := p.catalog.SubraceAbility(sr)
		if !ok {
			ability = "Unknown ability"
		}
		fmt.Fprintf(&b, "- %s: %s\n", capitalize(string(sr)), ability)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Prompter) askClass() string {
	var b strings.Builder
	b.WriteString("Choose a class from the list below:\n")
	for _, class := range p.catalog.Classes() {
		ability, _ := p.catalog.ClassAbilityFor(class)
		fmt.Fprintf(&b, "- %s (%s): %s\n", capitalize(string(class)), ability.Name, ability.Desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Prompter) askWeapon(session *model.Session) string {
	classSlot := session.Slot(model.SlotClass)
	class := catalog.Class(strings.ToLower(classSlot))
	weapons := p.catalog.WeaponsFor(class)
	if len(weapons) == 0 {
		return fmt.Sprintf("As a %s, choose any weapon you like:", classSlot)
	}

	names := make([]string, 0, len(weapons))
	for _, w := range weapons {
		names = append(names, capitalize(string(w)))
	}
	return fmt.Sprintf("As a %s, choose your weapon (%s):", classSlot, strings.Join(names, ", "))
}

// Confirmation returns the acknowledgement emitted after a slot is accepted,
// empty when the slot has none.
func (p *Prompter) Confirmation(slot string, session *model.Session) string {
	switch slot {
	case model.SlotWeapon:
		return fmt.Sprintf("Alright! Your %s is equipped with a %s.",
			session.Slot(model.SlotClass), session.Slot(model.SlotWeapon))
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
