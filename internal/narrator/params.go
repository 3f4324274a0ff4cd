package narrator

// Narration modes with distinct decoding presets.
const (
	ModeAdventure = "adventure"
	ModeOpening   = "opening"
)

// AdventureParams are the decoding parameters for an ordinary in-character
// turn: short, focused narration.
func AdventureParams(stop []string) GenerationParams {
	return GenerationParams{
		MaxTokens:   400,
		Temperature: 0.7,
		TopP:        0.9,
		Stop:        stop,
	}
}

// OpeningParams are the decoding parameters for the scene-setting narration
// right after character creation: longer and slightly more adventurous.
func OpeningParams(stop []string) GenerationParams {
	return GenerationParams{
		MaxTokens:   900,
		Temperature: 0.8,
		TopP:        0.9,
		Stop:        stop,
	}
}
