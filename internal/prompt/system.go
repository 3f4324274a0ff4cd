package prompt

import (
	"fmt"
	"strings"

	"gamemaster-server/internal/model"
)

// Defaults applied when the optional game-parameter slots are unset.
const (
	DefaultTheme      = "Medieval Fantasy"
	DefaultDifficulty = "Normal"
	DefaultNbPlayers  = "1"
	DefaultLanguage   = "English"
)

// AbilitySeparator joins the class and subrace ability texts on the character
// sheet. The two values are plain description strings, concatenated, never
// merged as lists.
const AbilitySeparator = "; "

// SystemPromptData is everything the system-instruction block is built from.
type SystemPromptData struct {
	Theme      string
	Difficulty string
	NbPlayers  string
	Language   string

	Race      string
	Subrace   string
	Class     string
	Weapon    string
	Attribute string
	Abilities string
}

// SystemPromptDataFromSession reads the game parameters and character sheet
// out of the session slots, applying defaults for the unset optional ones.
func SystemPromptDataFromSession(s *model.Session) SystemPromptData {
	abilities := s.Slot(model.SlotAbilityClass)
	if sub := s.Slot(model.SlotAbilitySubrace); sub != "" {
		if abilities != "" {
			abilities += AbilitySeparator
		}
		abilities += sub
	}

	return SystemPromptData{
		Theme:      orDefault(s.Slot(model.SlotTheme), DefaultTheme),
		Difficulty: orDefault(s.Slot(model.SlotDifficulty), DefaultDifficulty),
		NbPlayers:  orDefault(s.Slot(model.SlotNbPlayers), DefaultNbPlayers),
		Language:   orDefault(s.Slot(model.SlotLanguage), DefaultLanguage),
		Race:       orDefault(s.Slot(model.SlotRace), "Unknown"),
		Subrace:    s.Slot(model.SlotSubrace),
		Class:      orDefault(s.Slot(model.SlotClass), "Adventurer"),
		Weapon:     orDefault(s.Slot(model.SlotWeapon), "Bare hands"),
		Attribute:  orDefault(s.Slot(model.SlotAttribute), "None"),
		Abilities:  orDefault(abilities, "None"),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// BuildSystemPrompt renders the system-instruction block: game parameters,
// character sheet, then the fixed behavioral rules.
func BuildSystemPrompt(data SystemPromptData) string {
	var b strings.Builder

	b.WriteString("You are an expert Dungeon Master (DM) for a text-based role-playing game.\n")
	fmt.Fprintf(&b, "RESPONSE LANGUAGE: %s.\n\n", data.Language)

	b.WriteString("--- GAME PARAMETERS ---\n")
	fmt.Fprintf(&b, "Theme: %s\n", data.Theme)
	fmt.Fprintf(&b, "Difficulty: %s\n", data.Difficulty)
	fmt.Fprintf(&b, "Number of players: %s\n\n", data.NbPlayers)

	b.WriteString("--- CHARACTER SHEET ---\n")
	if data.Subrace != "" {
		fmt.Fprintf(&b, "Race: %s (%s)\n", data.Race, data.Subrace)
	} else {
		fmt.Fprintf(&b, "Race: %s\n", data.Race)
	}
	fmt.Fprintf(&b, "Class: %s\n", data.Class)
	fmt.Fprintf(&b, "Main weapon: %s\n", data.Weapon)
	fmt.Fprintf(&b, "Major attribute: %s\n", data.Attribute)
	fmt.Fprintf(&b, "Special abilities: %s\n\n", data.Abilities)

	b.WriteString("--- INSTRUCTIONS ---\n")
	b.WriteString("1. Describe actions, the environment and NPC reactions in an immersive way.\n")
	fmt.Fprintf(&b, "2. Take the difficulty (%s) into account when deciding whether the player's actions succeed or fail.\n", data.Difficulty)
	b.WriteString("3. Be concise: no long monologues (3-4 sentences maximum).\n")
	b.WriteString("4. Never play in the player's place. Always ask what they do next.\n")
	b.WriteString("5. Skip trivial actions forward in time; when the player explores, reveal danger immediately.\n")
	b.WriteString("6. Proactively introduce events, encounters and complications to keep the story moving.\n")
	b.WriteString("7. When chance is involved, simulate a dice roll and state the result (e.g. \"You roll a 14: ...\").")

	return b.String()
}
