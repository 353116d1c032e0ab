package prompts

import (
	"bytes"
	"strings"
	"text/template"
)

type FieldPromptData struct {
	Label      string
	Validation string
}

var constrained = template.Must(template.New("constrained").Parse(ConstrainedPrompt))

// PersonaSeeds splits a persona document into the system messages that
// pin the generation context.
func PersonaSeeds(doc string) []string {
	blocks := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")
	seeds := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			seeds = append(seeds, b)
		}
	}
	return seeds
}

// FieldPrompt is the bare label when the field has no validation message,
// otherwise the constrained template carrying the message verbatim.
func FieldPrompt(label, validation string) (string, error) {
	label = strings.TrimSpace(label)
	validation = strings.TrimSpace(validation)
	if validation == "" {
		return label, nil
	}

	var buf bytes.Buffer
	if err := constrained.Execute(&buf, FieldPromptData{Label: label, Validation: validation}); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
