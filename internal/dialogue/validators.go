package dialogue

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gamemaster-server/internal/catalog"
	"gamemaster-server/internal/model"
)

// ValidationResult is the outcome of validating one slot value. A rejected
// value never stays in the slot: the form controller clears it and re-asks.
type ValidationResult struct {
	Accepted bool
	// Value is the canonical value to store on acceptance.
	Value string
	// Derived holds extra slots filled as a side effect of acceptance
	// (ability_class, ability_subrace).
	Derived map[string]string
	// Message is the user-facing rejection text enumerating valid options.
	Message string
}

func accept(value string) ValidationResult {
	return ValidationResult{Accepted: true, Value: value}
}

func reject(message string) ValidationResult {
	return ValidationResult{Accepted: false, Message: message}
}

// SlotValidator validates slot values against the catalog and the current
// session state. Comparisons are case-insensitive; stored values preserve the
// submitted casing.
type SlotValidator struct {
	catalog *catalog.Catalog
}

// NewSlotValidator creates a SlotValidator.
func NewSlotValidator(cat *catalog.Catalog) *SlotValidator {
	return &SlotValidator{catalog: cat}
}

// Validate dispatches to the per-slot validation rule.
func (v *SlotValidator) Validate(slot, raw string, session *model.Session) ValidationResult {
	raw = strings.TrimSpace(raw)
	switch slot {
	case model.SlotRace:
		return v.validateRace(raw)
	case model.SlotSubrace:
		return v.validateSubrace(raw, session)
	case model.SlotClass:
		return v.validateClass(raw)
	case model.SlotWeapon:
		return v.validateWeapon(raw, session)
	case model.SlotAttribute:
		return v.validateAttribute(raw)
	default:
		return reject(fmt.Sprintf("I don't know anything called %q.", slot))
	}
}

func (v *SlotValidator) validateRace(raw string) ValidationResult {
	if _, ok := v.catalog.KnownRace(raw); !ok {
		return reject(fmt.Sprintf("Unknown race. Valid choices: %s.", joinRaces(v.catalog.Races())))
	}
	return accept(raw)
}

func (v *SlotValidator) validateSubrace(raw string, session *model.Session) ValidationResult {
	raceSlot := session.Slot(model.SlotRace)
	if raceSlot == "" {
		return reject("I need to know your race before your legacy. Which race are you?")
	}

	race := catalog.Race(strings.ToLower(raceSlot))

	// Humans have no subrace: derive "none" plus the fixed versatile ability
	// and skip the membership check entirely.
	if race == catalog.RaceHuman {
		res := accept(string(catalog.SubraceNone))
		res.Derived = map[string]string{model.SlotAbilitySubrace: catalog.HumanAbility}
		return res
	}

	valid := v.catalog.SubracesFor(race)
	subrace := catalog.Subrace(strings.ToLower(raw))
	if len(valid) > 0 && !containsSubrace(valid, subrace) {
		return reject(fmt.Sprintf("Impossible choice for a %s. Try: %s.", raceSlot, joinSubraces(valid)))
	}

	// A missing ability entry is non-fatal: the character simply has none.
	ability, ok := v.catalog.SubraceAbility(subrace)
	if !ok {
		ability = "none"
	}
	res := accept(raw)
	res.Derived = map[string]string{model.SlotAbilitySubrace: ability}
	return res
}

func (v *SlotValidator) validateClass(raw string) ValidationResult {
	class, ok := v.catalog.KnownClass(raw)
	if !ok {
		return reject(fmt.Sprintf("Unknown class. Valid choices: %s.", joinClasses(v.catalog.Classes())))
	}

	ability, _ := v.catalog.ClassAbilityFor(class)
	res := accept(raw)
	res.Derived = map[string]string{
		model.SlotAbilityClass: fmt.Sprintf("%s: %s", ability.Name, ability.Desc),
	}
	return res
}

func (v *SlotValidator) validateWeapon(raw string, session *model.Session) ValidationResult {
	classSlot := session.Slot(model.SlotClass)
	if classSlot == "" {
		return reject("I need to know your class before your weapon. Which class are you?")
	}

	class := catalog.Class(strings.ToLower(classSlot))
	allowed := v.catalog.WeaponsFor(class)

	// No enumerated weapons means no constraint.
	if len(allowed) == 0 {
		return accept(raw)
	}

	weapon := catalog.Weapon(strings.ToLower(raw))
	if !containsWeapon(allowed, weapon) {
		return reject(fmt.Sprintf("A %s cannot use a %s! Choices: %s.", classSlot, raw, joinWeapons(allowed)))
	}
	return accept(raw)
}

func (v *SlotValidator) validateAttribute(raw string) ValidationResult {
	if utf8.RuneCountInString(raw) < 2 {
		return reject("Invalid attribute. Give me at least a couple of letters (e.g. Strength).")
	}
	return accept(raw)
}

func containsSubrace(list []catalog.Subrace, v catalog.Subrace) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsWeapon(list []catalog.Weapon, v catalog.Weapon) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func joinRaces(list []catalog.Race) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinSubraces(list []catalog.Subrace) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinClasses(list []catalog.Class) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinWeapons(list []catalog.Weapon) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
