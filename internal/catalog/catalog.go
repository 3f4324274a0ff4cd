package catalog

import (
	"fmt"
	"strings"
)

// Race, Subrace, Class and Weapon are closed identifier sets. All catalog
// lookups are keyed by these types; free-form user input is matched against
// them case-insensitively before it ever becomes one of these values.
type (
	Race    string
	Subrace string
	Class   string
	Weapon  string
)

// RaceHuman has no subrace list; picking it short-circuits subrace selection.
const RaceHuman Race = "human"

// SubraceNone is the derived subrace for humans.
const SubraceNone Subrace = "none"

// HumanAbility is the fixed racial ability granted to humans.
const HumanAbility = "Versatile: +1 to all stats."

// ClassAbility describes the passive ability granted by a class.
type ClassAbility struct {
	Name string
	Desc string
}

// Catalog holds the static reference data for character creation. It is
// loaded once at startup, validated, and never mutated afterwards, so it is
// safe to share across sessions without locking.
type Catalog struct {
	raceOrder  []Race
	classOrder []Class

	subracesByRace   map[Race][]Subrace
	abilityBySubrace map[Subrace]string
	weaponsByClass   map[Class][]Weapon
	abilityByClass   map[Class]ClassAbility
}

var subraceTable = map[Race][]Subrace{
	"elf":        {"high", "wood"},
	"dwarf":      {"hill", "mountain"},
	"gnome":      {"rock", "forest", "cave"},
	"dragonborn": {"metallic", "gem", "dragonblood"},
	"drow":       {"deep", "surface"},
}

var raceOrder = []Race{"elf", "dwarf", "gnome", "dragonborn", "drow", RaceHuman}

var subraceAbilityTable = map[Subrace]string{
	"high": "Keen Mind: You know a handy little magic trick (light or small spark).",
	"wood": "Fleet of Foot: You can move through the forest without making a sound.",

	"hill":     "Dwarven Toughness: You are hardier and can take more hits than others.",
	"mountain": "Brute Strength: You are accustomed to wearing heavy armor without fatigue.",

	"rock":   "Tinker: You know how to repair small mechanical objects or locks.",
	"forest": "Speak with Small Beasts: Small animals (squirrels, birds) naturally trust you.",
	"cave":   "Superior Darkvision: Your eyes see in total darkness as if it were day.",

	"deep":    "Spider Master: Living in deep caves, spiders are your allies.",
	"surface": "Light Magic: Living above ground, you create magical lights to guide you.",

	"metallic":    "Dragon Breath: You can exhale fire or ice once a day.",
	"gem":         "Telepathy: You can send simple thoughts into the minds of others.",
	"dragonblood": "Royal Presence: People listen to you more attentively thanks to your charisma.",
}

var weaponTable = map[Class][]Weapon{
	"paladin":   {"longsword", "hammer", "shield", "mace", "sword"},
	"barbarian": {"axe", "longsword", "hammer", "mace"},

	"rogue":  {"dagger", "bow", "sword"},
	"ranger": {"bow", "dagger", "axe", "longsword"},
	"monk":   {"staff", "dagger"},

	"wizard":   {"staff", "orb", "dagger"},
	"sorcerer": {"orb", "staff", "dagger"},
	"druid":    {"staff", "mace"},

	"bard": {"luth", "dagger", "sword", "bow"},
}

var classAbilityTable = map[Class]ClassAbility{
	"paladin":   {Name: "Divine Guardian", Desc: "Grants +1 AC to adjacent allies when holding a Shield."},
	"barbarian": {Name: "Feral Instinct", Desc: "Deals +2 damage when HP is below 50%."},
	"rogue":     {Name: "Cheap Shot", Desc: "First attack of combat deals bonus damage."},
	"ranger":    {Name: "Hunter's Mark", Desc: "Consecutive attacks on the same target deal +2 damage."},
	"monk":      {Name: "Flow of Ki", Desc: "Successful attacks increase Dodge chance by 10%."},
	"wizard":    {Name: "Arcane Study", Desc: "Identifies enemy weaknesses using an Orb."},
	"sorcerer":  {Name: "Unstable Power", Desc: "Re-roll damage results of 1 on spells."},
	"druid":     {Name: "Nature's Touch", Desc: "Passive health regeneration of 2 HP per turn."},
	"bard":      {Name: "Inspiring Tune", Desc: "Allies gain +1 Attack when the Bard holds a Luth."},
}

var classOrder = []Class{"paladin", "barbarian", "rogue", "ranger", "monk", "wizard", "sorcerer", "druid", "bard"}

// New builds the catalog from the static tables and validates cross-table
// consistency, so a typo between tables fails at startup instead of turning
// into a silent lookup miss at runtime.
func New() (*Catalog, error) {
	c := &Catalog{
		raceOrder:        raceOrder,
		classOrder:       classOrder,
		subracesByRace:   subraceTable,
		abilityBySubrace: subraceAbilityTable,
		weaponsByClass:   weaponTable,
		abilityByClass:   classAbilityTable,
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return c, nil
}

func (c *Catalog) validate() error {
	for _, race := range c.raceOrder {
		if race == RaceHuman {
			continue
		}
		subraces, ok := c.subracesByRace[race]
		if !ok {
			return fmt.Errorf("race %q has no subrace list", race)
		}
		for _, sr := range subraces {
			if _, ok := c.abilityBySubrace[sr]; !ok {
				return fmt.Errorf("subrace %q of race %q has no ability entry", sr, race)
			}
		}
	}
	for race := range c.subracesByRace {
		if !contains(c.raceOrder, race) {
			return fmt.Errorf("subrace table references unknown race %q", race)
		}
	}
	for _, class := range c.classOrder {
		if _, ok := c.abilityByClass[class]; !ok {
			return fmt.Errorf("class %q has no ability entry", class)
		}
	}
	for class := range c.weaponsByClass {
		if !contains(c.classOrder, class) {
			return fmt.Errorf("weapon table references unknown class %q", class)
		}
	}
	for class := range c.abilityByClass {
		if !contains(c.classOrder, class) {
			return fmt.Errorf("class ability table references unknown class %q", class)
		}
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Races returns all playable races in presentation order, humans included.
func (c *Catalog) Races() []Race {
	return c.raceOrder
}

// Classes returns all playable classes in presentation order.
func (c *Catalog) Classes() []Class {
	return c.classOrder
}

// KnownRace matches free-form input against the race set, case-insensitively.
func (c *Catalog) KnownRace(v string) (Race, bool) {
	race := Race(strings.ToLower(strings.TrimSpace(v)))
	if contains(c.raceOrder, race) {
		return race, true
	}
	return "", false
}

// KnownClass matches free-form input against the class set, case-insensitively.
func (c *Catalog) KnownClass(v string) (Class, bool) {
	class := Class(strings.ToLower(strings.TrimSpace(v)))
	if contains(c.classOrder, class) {
		return class, true
	}
	return "", false
}

// SubracesFor returns the subrace list for a race. Humans have none.
func (c *Catalog) SubracesFor(race Race) []Subrace {
	return c.subracesByRace[race]
}

// SubraceAbility returns the natural ability text for a subrace.
func (c *Catalog) SubraceAbility(sr Subrace) (string, bool) {
	ability, ok := c.abilityBySubrace[sr]
	return ability, ok
}

// WeaponsFor returns the allowed weapons for a class. An empty list means the
// class has no enumerated weapons and therefore no constraint.
func (c *Catalog) WeaponsFor(class Class) []Weapon {
	return c.weaponsByClass[class]
}

// ClassAbilityFor returns the passive ability of a class.
func (c *Catalog) ClassAbilityFor(class Class) (ClassAbility, bool) {
	ability, ok := c.abilityByClass[class]
	return ability, ok
}
