package chat

import (
	"fmt"
	"strings"
)

const (
	BeginOfText = "<|begin_of_text|>"
	EndOfText   = "<|end_of_text|>"
	EndOfTurn   = "<|eot_id|>"

	startHeader = "<|start_header_id|>"
	endHeader   = "<|end_header_id|>"
)

// Renderer turns a conversation into the prompt text a given model family expects.
type Renderer interface {
	Name() string
	BuildGenerationPrompt(msgs []Message) (string, error)
	StopSequences() []string
}

// Llama3Renderer renders the Llama 3 instruct chat template.
type Llama3Renderer struct{}

func (Llama3Renderer) Name() string { return "llama3" }

// BuildGenerationPrompt renders every message and leaves an open assistant
// header, so the model continues with the assistant turn.
func (Llama3Renderer) BuildGenerationPrompt(msgs []Message) (string, error) {
	if err := Validate(msgs); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(BeginOfText)
	for _, m := range msgs {
		writeHeader(&b, m.Role)
		b.WriteString(m.Content)
		b.WriteString(EndOfTurn)
	}
	writeHeader(&b, RoleAssistant)
	return b.String(), nil
}

func (Llama3Renderer) StopSequences() []string {
	return []string{EndOfTurn, EndOfText}
}

func writeHeader(b *strings.Builder, role Role) {
	b.WriteString(startHeader)
	b.WriteString(string(role))
	b.WriteString(endHeader)
	b.WriteString("\n\n")
}

// RendererByName resolves the renderer names used in training configs.
func RendererByName(name string) (Renderer, error) {
	switch name {
	case "llama3", "":
		return Llama3Renderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}
