// Package playground implements the dual-stream conversation engine behind the
// vibegpt client: two parallel message histories per character (a trait-steered
// "control" conversation and an unsteered "baseline"), streamed token-by-token
// from a remote inference endpoint and persisted across sessions.
package playground

import (
	"math"
	"strings"
)

// Variant identifies one of the two parallel conversation modes.
type Variant string

const (
	// VariantControl is the trait-steered conversation.
	VariantControl Variant = "control"
	// VariantBaseline is the unsteered conversation.
	VariantBaseline Variant = "baseline"
)

// Variants lists both modes in display order (control pane first).
var Variants = []Variant{VariantControl, VariantBaseline}

// Role classifies a message within a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
	RoleSystem    Role = "system"
)

// Trait is a named steering dimension with a strength coefficient. Traits are
// captured by value at submit time and attached to assistant messages for
// display; the coefficient is passed to the endpoint unchanged, clamping
// happens only when rendering.
type Trait struct {
	Name  string  `json:"name" yaml:"name"`
	Desc  string  `json:"desc" yaml:"desc"`
	Color string  `json:"color" yaml:"color"`
	Coeff float64 `json:"coeff" yaml:"coeff"`
}

// DisplayPercent returns the trait strength as a whole percentage, clamped to
// [0, 100] for rendering.
func (t Trait) DisplayPercent() int {
	return int(math.Floor(math.Min(math.Max(0, t.Coeff), 1) * 100))
}

// Token is one unit of streamed assistant output. Corrs is reserved for
// correlating a token to per-trait contributions and is always empty today.
type Token struct {
	Text  string    `json:"text"`
	Corrs []float64 `json:"corrs"`
}

// Message is a single entry in a conversation history.
//
// For RoleUser, RoleSystem and RoleError the text lives in Content and Tokens
// is empty. For RoleAssistant, Content is empty and the display text is the
// in-order concatenation of Tokens, so partially streamed output renders as it
// arrives.
type Message struct {
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Tokens  []Token `json:"tokens"`
	Traits  []Trait `json:"traits"`
}

// Text returns the display text of the message.
func (m Message) Text() string {
	if m.Role != RoleAssistant {
		return m.Content
	}
	var sb strings.Builder
	for _, tok := range m.Tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Character is the conversational persona whose paired histories are being
// displayed: an opaque id, a display name and a trait set.
type Character struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Traits []Trait `json:"traits" yaml:"traits"`
}

// ActiveTraits returns the traits with a positive coefficient, the ones shown
// as tags on control-pane assistant messages.
func ActiveTraits(traits []Trait) []Trait {
	var active []Trait
	for _, t := range traits {
		if t.Coeff > 0 {
			active = append(active, t)
		}
	}
	return active
}

// TurnMessage is a history entry flattened to the wire shape sent as request
// context with an inference job.
type TurnMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// FlattenHistory converts a message sequence to the wire shape: one
// {role, text} pair per message, assistant text concatenated from tokens.
func FlattenHistory(msgs []Message) []TurnMessage {
	flat := make([]TurnMessage, 0, len(msgs))
	for _, m := range msgs {
		flat = append(flat, TurnMessage{Role: m.Role, Text: m.Text()})
	}
	return flat
}
