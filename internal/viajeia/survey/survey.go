// Package survey holds the structured trip-preference fields a traveler
// fills in before asking a question, and builds the composite planning
// message the service expects. The service parses labeled fragments out of
// the message text ("Destino deseado: ..."), so the fragment labels here
// are part of the wire contract.
package survey

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/viajeia/viajeia/internal/common/apperrors"
)

// Style is the traveler's preferred trip style.
type Style string

const (
	StyleAdventure  Style = "adventure"
	StyleRelaxation Style = "relaxation"
	StyleCulture    Style = "culture"
)

// spanish returns the fragment wording for the style.
func (s Style) spanish() string {
	switch s {
	case StyleAdventure:
		return "adventura"
	case StyleRelaxation:
		return "relajación"
	case StyleCulture:
		return "cultura"
	}
	return ""
}

// Context carries the structured trip preferences. All fields are optional;
// blank fields are reported as "sin definir" fragments so the service can
// ask follow-up questions.
type Context struct {
	Destination string `validate:"omitempty,max=200"`
	Date        string `validate:"omitempty,max=200"`
	Budget      string `validate:"omitempty,max=200"`
	Style       Style  `validate:"omitempty,oneof=adventure relaxation culture"`
}

var (
	ErrInvalidSurvey = apperrors.New("Revisa los datos del viaje e inténtalo de nuevo.").SetStatusCode(http.StatusBadRequest)

	// ErrEmptyQuestion is the local rejection for a blank or
	// whitespace-only question; it never reaches the network.
	ErrEmptyQuestion = ErrInvalidSurvey.New("Escribe tu pregunta para el asistente de viajes.")
)

var validate = validator.New()

// Validate checks the survey fields against their constraints.
func (c Context) Validate() error {
	if err := validate.Struct(c); err != nil {
		return ErrInvalidSurvey.Err(err)
	}
	return nil
}

const fragmentSeparator = " | "

// fragment renders one labeled survey field, or the explicit "undefined"
// wording when the field is blank.
func fragment(label, value, undefined string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return undefined
	}
	return label + ": " + value
}

// BuildMessage synthesizes the composite planning message from the survey
// context and the traveler's free-text question. It is a pure function:
// same inputs, same message. The question is required; survey fields are
// interpolated as labeled text fragments, never sent as structured data.
func BuildMessage(c Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	fragments := []string{
		fragment("Destino deseado", c.Destination, "Destino sin definir"),
		fragment("Fechas aproximadas", c.Date, "Fechas sin definir"),
		fragment("Presupuesto estimado", c.Budget, "Presupuesto sin definir"),
		fragment("Estilo preferido", c.Style.spanish(), "Estilo sin definir"),
		"Pregunta del viajero: " + question,
	}
	return strings.Join(fragments, fragmentSeparator), nil
}
