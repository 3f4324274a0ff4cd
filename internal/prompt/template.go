package prompt

import (
	"fmt"
	"strings"
)

// Template renders {system instructions, windowed history, current utterance}
// into one model-ready string for a specific model family. Swapping the model
// file only means swapping the template and decoding parameters; the form
// controller and validator never change.
type Template interface {
	// Name identifies the template variant in config and logs.
	Name() string
	// Render produces the full prompt. The assistant turn is left open at the
	// end so the model continues from there.
	Render(system string, history []Turn, current string) string
	// StopSequences returns the markers generation must halt on so the model
	// never invents a new role header.
	StopSequences() []string
}

// Template variant names accepted in configuration.
const (
	TemplateLlama3  = "llama3"
	TemplateMistral = "mistral"
)

// ForName returns the template for a configured variant name.
func ForName(name string) (Template, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TemplateLlama3, "":
		return llama3Template{}, nil
	case TemplateMistral:
		return mistralTemplate{}, nil
	default:
		return nil, fmt.Errorf("unknown prompt template %q", name)
	}
}

// llama3Template is the structured-turn variant: every turn is wrapped in
// paired role-delimiter headers with an explicit end-of-turn marker, and an
// open assistant header closes the prompt.
type llama3Template struct{}

func (llama3Template) Name() string { return TemplateLlama3 }

func (llama3Template) StopSequences() []string {
	return []string{"<|eot_id|>", "<|start_header_id|>"}
}

func (llama3Template) Render(system string, history []Turn, current string) string {
	var b strings.Builder
	b.WriteString("<|begin_of_text|><|start_header_id|>system<|end_header_id|>\n\n")
	b.WriteString(system)
	b.WriteString("<|eot_id|>\n")

	if len(history) == 0 {
		b.WriteString("<|start_header_id|>assistant<|end_header_id|>\n\n")
		b.WriteString(BeginningMarker)
		b.WriteString("<|eot_id|>")
	}
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleAssistant {
			role = "assistant"
		}
		fmt.Fprintf(&b, "<|start_header_id|>%s<|end_header_id|>\n\n%s<|eot_id|>", role, turn.Text)
	}

	b.WriteString("<|start_header_id|>user<|end_header_id|>\n\n")
	b.WriteString(current)
	b.WriteString("<|eot_id|>\n")
	b.WriteString("<|start_header_id|>assistant<|end_header_id|>\n\n")
	return b.String()
}

// mistralTemplate is the bracketed-instruction variant: user turns are wrapped
// in [INST] brackets, assistant turns are followed by an end-of-sequence
// marker, and the system prompt is folded into the first instruction pair.
type mistralTemplate struct{}

func (mistralTemplate) Name() string { return TemplateMistral }

func (mistralTemplate) StopSequences() []string {
	return []string{"</s>", "[INST]"}
}

func (mistralTemplate) Render(system string, history []Turn, current string) string {
	var b strings.Builder
	b.WriteString("<s>")

	systemPending := system
	if len(history) == 0 {
		systemPending += "\n\n" + BeginningMarker
	}

	for _, turn := range history {
		switch turn.Role {
		case RoleUser:
			b.WriteString("[INST] ")
			if systemPending != "" {
				b.WriteString(systemPending)
				b.WriteString("\n\n")
				systemPending = ""
			}
			b.WriteString(turn.Text)
			b.WriteString(" [/INST]")
		case RoleAssistant:
			// The window can open on an assistant turn (the scene-setting
			// narration). The system prompt must still come first.
			if systemPending != "" {
				b.WriteString("[INST] ")
				b.WriteString(systemPending)
				b.WriteString(" [/INST]")
				systemPending = ""
			}
			b.WriteString(turn.Text)
			b.WriteString("</s>")
		}
	}

	b.WriteString("[INST] ")
	if systemPending != "" {
		b.WriteString(systemPending)
		b.WriteString("\n\n")
	}
	b.WriteString(current)
	b.WriteString(" [/INST]")
	return b.String()
}
