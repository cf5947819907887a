package playground

import (
	"errors"
	"sync"
)

// ErrEmptyHistory is returned when a patch is attempted on a character whose
// history has no messages. The turn coordinator always appends a placeholder
// before streaming starts, so hitting this indicates a programming error, not
// a user-facing condition.
var ErrEmptyHistory = errors.New("history: no messages for character")

// Store holds the ordered message sequences for one variant, keyed by
// character id. Insertion order is chronological turn order and the sole
// ordering key. Only the trailing message of a sequence is ever mutated;
// everything before it is committed.
//
// Observers registered with Subscribe are invoked synchronously after every
// committed change, which is how the persistence adapter and the presentation
// layer stay current.
type Store struct {
	variant Variant

	mu        sync.RWMutex
	messages  map[string][]Message
	observers []func(characterID string)
}

// NewStore creates an empty history store for the given variant.
func NewStore(variant Variant) *Store {
	return &Store{
		variant:  variant,
		messages: make(map[string][]Message),
	}
}

// Variant returns the conversation mode this store belongs to.
func (s *Store) Variant() Variant {
	return s.variant
}

// Subscribe registers an observer invoked after every committed change to a
// character's sequence. Observers must not mutate the store. Registration is
// not safe once streaming has started; wire observers up front.
func (s *Store) Subscribe(fn func(characterID string)) {
	s.observers = append(s.observers, fn)
}

// Append adds a message to the end of the character's sequence.
func (s *Store) Append(characterID string, msg Message) {
	s.mu.Lock()
	s.messages[characterID] = append(s.messages[characterID], msg)
	s.mu.Unlock()
	s.notify(characterID)
}

// PatchLast replaces the trailing message of the character's sequence with
// update(last). It is used exclusively to grow an in-flight assistant
// message's token list or to convert it to a terminal error message.
func (s *Store) PatchLast(characterID string, update func(Message) Message) error {
	s.mu.Lock()
	seq := s.messages[characterID]
	if len(seq) == 0 {
		s.mu.Unlock()
		return ErrEmptyHistory
	}
	seq[len(seq)-1] = update(seq[len(seq)-1])
	s.mu.Unlock()
	s.notify(characterID)
	return nil
}

// Snapshot returns a copy of the character's current ordered sequence, safe to
// read while streams are writing.
func (s *Store) Snapshot(characterID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages[characterID]...)
}

// Len returns the number of messages in the character's sequence.
func (s *Store) Len(characterID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[characterID])
}

// Clear empties the character's sequence.
func (s *Store) Clear(characterID string) {
	s.mu.Lock()
	delete(s.messages, characterID)
	s.mu.Unlock()
	s.notify(characterID)
}

// Seed replaces the character's sequence with messages restored from durable
// storage. It runs only at character activation and does not notify
// observers, so restoring a transcript never rewrites it.
func (s *Store) Seed(characterID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(msgs) == 0 {
		delete(s.messages, characterID)
		return
	}
	s.messages[characterID] = append([]Message(nil), msgs...)
}

func (s *Store) notify(characterID string) {
	for _, fn := range s.observers {
		fn(characterID)
	}
}
