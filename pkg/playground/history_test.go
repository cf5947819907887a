package playground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendAndSnapshot(t *testing.T) {
	s := NewStore(VariantControl)
	assert.Equal(t, VariantControl, s.Variant())
	assert.Empty(t, s.Snapshot("c1"))

	s.Append("c1", Message{Role: RoleUser, Content: "hello"})
	s.Append("c1", Message{Role: RoleAssistant, Tokens: []Token{}})

	snap := s.Snapshot("c1")
	require.Len(t, snap, 2)
	assert.Equal(t, RoleUser, snap[0].Role)
	assert.Equal(t, RoleAssistant, snap[1].Role)
	assert.Equal(t, 2, s.Len("c1"))

	// Characters are independent.
	assert.Empty(t, s.Snapshot("c2"))
}

func TestStorePatchLast(t *testing.T) {
	s := NewStore(VariantBaseline)
	s.Append("c1", Message{Role: RoleUser, Content: "hello"})
	s.Append("c1", Message{Role: RoleAssistant, Tokens: []Token{}})

	err := s.PatchLast("c1", func(m Message) Message {
		m.Tokens = append(append([]Token(nil), m.Tokens...), Token{Text: "Hi"})
		return m
	})
	require.NoError(t, err)

	snap := s.Snapshot("c1")
	require.Len(t, snap, 2)
	assert.Equal(t, "Hi", snap[1].Text())
	// Earlier messages are untouched.
	assert.Equal(t, "hello", snap[0].Content)
}

func TestStorePatchLastEmptyHistory(t *testing.T) {
	s := NewStore(VariantControl)
	err := s.PatchLast("c1", func(m Message) Message { return m })
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore(VariantControl)
	s.Append("c1", Message{Role: RoleUser, Content: "hello"})

	snap := s.Snapshot("c1")
	snap[0].Content = "mutated"

	assert.Equal(t, "hello", s.Snapshot("c1")[0].Content)
}

func TestStoreClear(t *testing.T) {
	s := NewStore(VariantControl)
	s.Append("c1", Message{Role: RoleUser, Content: "hello"})
	s.Append("c2", Message{Role: RoleUser, Content: "hey"})

	s.Clear("c1")
	assert.Empty(t, s.Snapshot("c1"))
	assert.Len(t, s.Snapshot("c2"), 1)
}

func TestStoreObservers(t *testing.T) {
	s := NewStore(VariantControl)
	var seen []string
	s.Subscribe(func(characterID string) {
		seen = append(seen, characterID)
	})

	s.Append("c1", Message{Role: RoleUser, Content: "hello"})
	s.Append("c1", Message{Role: RoleAssistant, Tokens: []Token{}})
	require.NoError(t, s.PatchLast("c1", func(m Message) Message { return m }))
	s.Clear("c1")

	assert.Equal(t, []string{"c1", "c1", "c1", "c1"}, seen)
}

func TestStoreSeedDoesNotNotify(t *testing.T) {
	s := NewStore(VariantControl)
	notified := 0
	s.Subscribe(func(string) { notified++ })

	s.Seed("c1", []Message{{Role: RoleUser, Content: "restored"}})
	assert.Zero(t, notified)
	assert.Len(t, s.Snapshot("c1"), 1)

	// Seeding empty drops the sequence.
	s.Seed("c1", nil)
	assert.Empty(t, s.Snapshot("c1"))
}
