package playground

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	a := NewArchive(t.TempDir())

	msgs := []Message{
		{Role: RoleUser, Content: "hello", Tokens: []Token{}, Traits: []Trait{}},
		{Role: RoleAssistant, Tokens: []Token{{Text: "Hi", Corrs: []float64{}}, {Text: " there", Corrs: []float64{}}}, Traits: []Trait{{Name: "curiosity", Coeff: 0.8}}},
	}
	require.NoError(t, a.Save(VariantControl, "c1", msgs))

	loaded := a.Load(VariantControl, "c1")
	assert.Equal(t, msgs, loaded)

	// The same character under the other variant is a distinct key.
	assert.Nil(t, a.Load(VariantBaseline, "c1"))
}

func TestArchiveLoadMissing(t *testing.T) {
	a := NewArchive(t.TempDir())
	assert.Nil(t, a.Load(VariantControl, "nope"))
}

func TestArchiveLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "control_c1.json"), []byte("{not json"), 0644))

	// Corrupt payloads fall soft to an empty sequence.
	assert.Nil(t, a.Load(VariantControl, "c1"))
}

func TestArchivePurge(t *testing.T) {
	a := NewArchive(t.TempDir())
	require.NoError(t, a.Save(VariantControl, "c1", []Message{{Role: RoleUser, Content: "hi"}}))
	require.NoError(t, a.Purge(VariantControl, "c1"))
	assert.Nil(t, a.Load(VariantControl, "c1"))

	// Purging a key that was never saved is fine.
	require.NoError(t, a.Purge(VariantControl, "c1"))
}

func TestArchiveAttachMirrorsStore(t *testing.T) {
	a := NewArchive(t.TempDir())
	s := NewStore(VariantControl)
	a.Attach(s)

	s.Append("c1", Message{Role: RoleUser, Content: "hello", Tokens: []Token{}, Traits: []Trait{}})
	s.Append("c1", Message{Role: RoleAssistant, Tokens: []Token{}, Traits: []Trait{}})
	require.NoError(t, s.PatchLast("c1", func(m Message) Message {
		m.Tokens = []Token{{Text: "Hi", Corrs: []float64{}}}
		return m
	}))

	loaded := a.Load(VariantControl, "c1")
	require.Len(t, loaded, 2)
	assert.Equal(t, "Hi", loaded[1].Text())

	// Clearing the store removes the persisted file.
	s.Clear("c1")
	assert.Nil(t, a.Load(VariantControl, "c1"))
}

func TestArchiveCharacters(t *testing.T) {
	a := NewArchive(t.TempDir())
	require.NoError(t, a.Save(VariantControl, "c1", []Message{{Role: RoleUser, Content: "hi"}}))
	require.NoError(t, a.Save(VariantControl, "c2", []Message{{Role: RoleUser, Content: "yo"}}))
	require.NoError(t, a.Save(VariantBaseline, "c1", []Message{{Role: RoleUser, Content: "hi"}}))

	ids := a.Characters(VariantControl)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)
	assert.ElementsMatch(t, []string{"c1"}, a.Characters(VariantBaseline))
}
