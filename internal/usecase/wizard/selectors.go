package wizard

import (
	"strings"
	"unicode"
)

// Selectors locate the parts of the apply wizard on the page.
type Selectors struct {
	Modal          string
	Form           string
	FieldContainer string
	FieldLabel     string
	FieldInput     string
	Next           string
	Submit         string
	Dismiss        string
	DiscardConfirm string
	// ErrorMessage is a format string taking the input element id.
	ErrorMessage string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Modal:          `[data-test-modal-id="easy-apply-modal"], .jobs-easy-apply-modal`,
		Form:           `[data-test-modal-id="easy-apply-modal"] form, .jobs-easy-apply-modal form`,
		FieldContainer: `div.artdeco-text-input--container`,
		FieldLabel:     `label.artdeco-text-input--label`,
		FieldInput:     `input.artdeco-text-input--input, input[type="text"]`,
		Next:           `button[data-live-test-easy-apply-review-button], button[data-easy-apply-next-button]`,
		Submit:         `button[data-live-test-easy-apply-submit-button]`,
		Dismiss:        `button[aria-label="Descartar"], button[aria-label="Dismiss"]`,
		DiscardConfirm: `button[data-control-name="discard_application_confirm_btn"], button[data-test-dialog-primary-btn]`,
		ErrorMessage:   `[id="%s-error"] .artdeco-inline-feedback__message`,
	}
}

// Headings are the step titles the classifier recognises. Exact entries are
// compared after whitespace normalisation, ignoring case; markers match as
// case-insensitive substrings.
type Headings struct {
	Contact    []string
	Curriculum []string
	Resume     []string
	Favorite   []string
}

func DefaultHeadings() Headings {
	return Headings{
		Contact:    []string{"Información de contacto", "Contact info"},
		Curriculum: []string{"Currículum", "CV"},
		Resume:     []string{"resume"},
		Favorite:   []string{"favorita", "favorite"},
	}
}

// ByID builds a selector matching an element id verbatim. Generated ids
// often contain characters that are not valid in a #id selector.
func ByID(id string) string {
	return `[id="` + strings.ReplaceAll(id, `"`, `\"`) + `"]`
}

func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func equalsAny(text string, candidates []string) bool {
	text = normalize(text)
	for _, c := range candidates {
		if strings.EqualFold(text, normalize(c)) {
			return true
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	text = strings.ToLower(text)
	for _, m := range markers {
		if m != "" && strings.Contains(text, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
