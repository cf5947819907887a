package playground

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vibegpt/playground/pkg/logging"
)

var (
	// ErrEmptyPrompt rejects a turn with no prompt text.
	ErrEmptyPrompt = errors.New("playground: empty prompt")

	// ErrTurnInFlight rejects a turn while the previous turn's streams are
	// still running.
	ErrTurnInFlight = errors.New("playground: turn already in flight")

	// ErrConversationHalted rejects a turn after a stream or submission
	// failure, until Reset is called.
	ErrConversationHalted = errors.New("playground: conversation halted, reset to continue")
)

const submissionFailedText = "The model endpoint could not be reached. Reset the conversation to try again."

// Engine coordinates the paired conversations of one character: it seeds both
// histories on every user turn, runs the two variant streams concurrently, and
// handles reset. Each variant's stream goroutine is the only writer of that
// variant's trailing message; the engine itself only gates submissions.
type Engine struct {
	client JobClient
	stores map[Variant]*Store
	log    *logrus.Entry

	mu        sync.Mutex
	character Character
	convID    string
	inFlight  bool
	turnSeq   uint64
	turnDone  chan struct{}

	broken atomic.Bool
}

// NewEngine creates an engine over the two history stores. conversationID may
// be empty, in which case a fresh id is assigned.
func NewEngine(client JobClient, control, baseline *Store, character Character, conversationID string) *Engine {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return &Engine{
		client: client,
		stores: map[Variant]*Store{
			VariantControl:  control,
			VariantBaseline: baseline,
		},
		log:       logging.NewLogger("engine"),
		character: character,
		convID:    conversationID,
	}
}

// Store returns the history store for a variant.
func (e *Engine) Store(v Variant) *Store {
	return e.stores[v]
}

// Character returns the active character.
func (e *Engine) Character() Character {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.character
}

// SetCharacter switches the active character. Histories of other characters
// are neither merged nor cleared; a turn already in flight keeps patching the
// character it was submitted for.
func (e *Engine) SetCharacter(c Character) {
	e.mu.Lock()
	e.character = c
	e.mu.Unlock()
}

// ConversationID returns the id carried by subsequent turns.
func (e *Engine) ConversationID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.convID
}

// InputDisabled reports whether prompt submission is currently rejected
// because the conversation is halted.
func (e *Engine) InputDisabled() bool {
	return e.broken.Load()
}

// TurnInFlight reports whether a submitted turn's streams are still running.
func (e *Engine) TurnInFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// SubmitTurn runs one user turn. It synchronously appends the user message and
// an empty assistant placeholder to both histories, then streams the two
// variant responses in the background; call Wait to block until both streams
// settle.
//
// A turn is rejected when the prompt is blank, when the previous turn is still
// streaming, or when the conversation is halted.
func (e *Engine) SubmitTurn(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}
	if e.broken.Load() {
		return ErrConversationHalted
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrTurnInFlight
	}
	e.inFlight = true
	e.turnSeq++
	seq := e.turnSeq
	done := make(chan struct{})
	e.turnDone = done
	char := e.character
	convID := e.convID
	e.mu.Unlock()

	traits := append([]Trait(nil), char.Traits...)
	userMsg := Message{Role: RoleUser, Content: prompt, Tokens: []Token{}, Traits: traits}
	placeholder := Message{Role: RoleAssistant, Tokens: []Token{}, Traits: traits}

	// Each variant's request context is its own history up to and including
	// the new user message, captured before the placeholder goes in.
	contexts := make(map[Variant][]TurnMessage, len(Variants))
	for _, v := range Variants {
		store := e.stores[v]
		store.Append(char.ID, userMsg)
		contexts[v] = FlattenHistory(store.Snapshot(char.ID))
		store.Append(char.ID, placeholder)
	}

	var wg sync.WaitGroup
	for _, v := range Variants {
		wg.Add(1)
		go func(v Variant) {
			defer wg.Done()
			e.runVariant(ctx, v, char, convID, prompt, contexts[v])
		}(v)
	}
	go func() {
		wg.Wait()
		e.mu.Lock()
		if e.turnSeq == seq {
			e.inFlight = false
		}
		e.mu.Unlock()
		close(done)
	}()
	return nil
}

// Wait blocks until the most recently submitted turn's streams have both
// settled. It returns immediately when no turn is in flight.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.turnDone
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Reset discards the conversation: it rotates the conversation id so stale
// in-flight streams can no longer patch history, notifies the remote side to
// drop session state (best effort), clears both histories and re-enables
// input. Calling it twice is the same as calling it once.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	old := e.convID
	e.convID = uuid.NewString()
	e.turnSeq++
	e.inFlight = false
	char := e.character
	e.mu.Unlock()

	if err := e.client.Clear(ctx, old); err != nil {
		e.log.WithError(err).WithField("conversation_id", old).Warn("Remote session clear failed")
	}
	for _, v := range Variants {
		e.stores[v].Clear(char.ID)
	}
	e.broken.Store(false)
}

// runVariant drives one variant's half of a turn: submit the job, then decode
// its chunk stream into the trailing assistant message.
func (e *Engine) runVariant(ctx context.Context, v Variant, char Character, convID, prompt string, history []TurnMessage) {
	log := e.log.WithFields(logrus.Fields{"variant": v, "conversation_id": convID})
	store := e.stores[v]

	jobID, err := e.client.Submit(ctx, JobRequest{
		ConversationID: convID,
		Prompt:         prompt,
		Character:      char,
		Variant:        v,
		History:        history,
	})
	if err != nil {
		log.WithError(err).Error("Job submission failed")
		e.failTurn(char.ID, convID)
		return
	}
	log.WithField("job_id", jobID).Debug("Job submitted")

	stream := e.client.Stream(ctx, jobID)
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			log.Debug("Stream completed")
			return
		}
		if err != nil {
			log.WithError(err).Warn("Stream interrupted")
			e.failVariant(store, char.ID, convID, "stream interrupted: "+err.Error())
			return
		}
		event := DecodeChunk(chunk)
		if event == nil {
			continue
		}
		switch event.Kind {
		case EventToken:
			text := event.Text
			appended := false
			if !e.patchLast(store, char.ID, convID, func(m Message) Message {
				if m.Role != RoleAssistant {
					return m
				}
				m.Tokens = append(append([]Token(nil), m.Tokens...), Token{Text: text, Corrs: []float64{}})
				appended = true
				return m
			}) {
				return
			}
			// The trailing message left the assistant state, so this
			// variant's output has nowhere to land anymore.
			if !appended {
				return
			}
		case EventError:
			log.WithField("error_text", event.Text).Warn("Stream reported error")
			e.failVariant(store, char.ID, convID, event.Text)
			return
		}
	}
}

// patchLast applies update to the trailing message unless the conversation has
// been reset since this turn was submitted. The conversation-id check and the
// patch happen under the same lock so a reset can never interleave between
// them.
func (e *Engine) patchLast(store *Store, characterID, convID string, update func(Message) Message) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.convID != convID {
		return false
	}
	if err := store.PatchLast(characterID, update); err != nil {
		e.log.WithError(err).Error("History patch failed")
		return false
	}
	return true
}

// failVariant converts this variant's trailing message to a terminal error and
// halts the conversation. The sibling variant keeps streaming untouched. The
// assistant-to-error transition happens at most once and never reverses.
func (e *Engine) failVariant(store *Store, characterID, convID, text string) {
	patched := e.patchLast(store, characterID, convID, func(m Message) Message {
		if m.Role != RoleAssistant {
			return m
		}
		return Message{Role: RoleError, Content: text, Tokens: []Token{}, Traits: []Trait{}}
	})
	if patched {
		e.broken.Store(true)
	}
}

// failTurn handles a submission failure, which is ambient to the whole turn:
// both trailing placeholders become system-role notices and the conversation
// halts. A trailing message that already left the assistant state, or that
// has streamed tokens, is left alone; streamed output survives a sibling's
// submission failure.
func (e *Engine) failTurn(characterID, convID string) {
	for _, v := range Variants {
		e.patchLast(e.stores[v], characterID, convID, func(m Message) Message {
			if m.Role != RoleAssistant || len(m.Tokens) > 0 {
				return m
			}
			return Message{Role: RoleSystem, Content: submissionFailedText, Tokens: []Token{}, Traits: []Trait{}}
		})
	}
	e.mu.Lock()
	stale := e.convID != convID
	e.mu.Unlock()
	if !stale {
		e.broken.Store(true)
	}
}
