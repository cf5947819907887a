package playground

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageText(t *testing.T) {
	assistant := Message{
		Role: RoleAssistant,
		Tokens: []Token{
			{Text: "Hi"},
			{Text: " there"},
			{Text: "!"},
		},
	}
	assert.Equal(t, "Hi there!", assistant.Text())

	user := Message{Role: RoleUser, Content: "hello"}
	assert.Equal(t, "hello", user.Text())

	errMsg := Message{Role: RoleError, Content: "rate limited"}
	assert.Equal(t, "rate limited", errMsg.Text())

	empty := Message{Role: RoleAssistant}
	assert.Equal(t, "", empty.Text())
}

func TestFlattenHistory(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Tokens: []Token{{Text: "Hi"}, {Text: " there"}}},
		{Role: RoleError, Content: "rate limited"},
	}

	flat := FlattenHistory(msgs)
	assert.Equal(t, []TurnMessage{
		{Role: RoleUser, Text: "hello"},
		{Role: RoleAssistant, Text: "Hi there"},
		{Role: RoleError, Text: "rate limited"},
	}, flat)

	assert.Empty(t, FlattenHistory(nil))
}

func TestTraitDisplayPercent(t *testing.T) {
	tests := []struct {
		coeff float64
		want  int
	}{
		{0, 0},
		{0.5, 50},
		{1, 100},
		{1.7, 100},  // clamped for display only
		{-0.3, 0},   // clamped for display only
		{0.333, 33}, // floored
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Trait{Coeff: tt.coeff}.DisplayPercent())
	}
}

func TestActiveTraits(t *testing.T) {
	traits := []Trait{
		{Name: "curiosity", Coeff: 0.8},
		{Name: "formality", Coeff: 0},
		{Name: "sarcasm", Coeff: 0.2},
	}

	active := ActiveTraits(traits)
	assert.Len(t, active, 2)
	assert.Equal(t, "curiosity", active[0].Name)
	assert.Equal(t, "sarcasm", active[1].Name)

	assert.Empty(t, ActiveTraits(nil))
}
