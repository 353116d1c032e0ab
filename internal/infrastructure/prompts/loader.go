package prompts

import (
	_ "embed"
)

// PersonaPrompt holds the persona seeds, one per blank-line separated block.
//
//go:embed persona.txt
var PersonaPrompt string

//go:embed constrained.tmpl
var ConstrainedPrompt string
