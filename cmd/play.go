package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vibegpt/playground/pkg/logging"
	"github.com/vibegpt/playground/pkg/playground"
	"github.com/vibegpt/playground/pkg/state"
)

var (
	playCharacter string
	playEndpoint  string
	playModelFlag string
)

// NewPlayCmd creates the vibegpt play command.
func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the side-by-side playground",
		Long: `Opens the playground: two panes streaming the character's control
(trait-steered) and baseline responses to each prompt, side by side.
Transcripts are restored from the previous session and persisted after every
token.`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	}
	cmd.Flags().StringVarP(&playCharacter, "character", "c", "", "Character to talk to (id or name)")
	cmd.Flags().StringVar(&playEndpoint, "endpoint", "", "Override the configured endpoint URL")
	cmd.Flags().StringVarP(&playModelFlag, "model", "m", "", "Override the model name shown in the header")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the playground requires an interactive terminal")
	}

	cfg, err := loadPlaygroundConfig()
	if err != nil {
		return err
	}
	if playEndpoint != "" {
		cfg.EndpointURL = playEndpoint
	}
	if playModelFlag != "" {
		cfg.Model = playModelFlag
	}
	if cfg.EndpointURL == "" {
		return fmt.Errorf("no endpoint configured: set endpoint_url in %s or VIBEGPT_ENDPOINT", configPath())
	}

	st, err := state.Load(cfg.DataDir())
	if err != nil {
		return err
	}
	char, err := cfg.ActiveCharacter(playCharacter, st.ActiveCharacter)
	if err != nil {
		return err
	}

	// Route logs to a file so log lines don't tear the rendered screen.
	if err := os.MkdirAll(cfg.DataDir(), 0755); err == nil {
		logPath := filepath.Join(cfg.DataDir(), "vibegpt.log")
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logging.SetOutput(logFile)
			defer logFile.Close()
		}
	}
	log := logging.NewLogger("play")

	client := playground.NewHTTPClient(cfg.EndpointURL, cfg.APIKey)
	control := playground.NewStore(playground.VariantControl)
	baseline := playground.NewStore(playground.VariantBaseline)

	archive := playground.NewArchive(cfg.HistoryDir())
	for _, store := range []*playground.Store{control, baseline} {
		store.Seed(char.ID, archive.Load(store.Variant(), char.ID))
		archive.Attach(store)
		log.WithFields(logrus.Fields{
			"variant":   store.Variant(),
			"character": char.ID,
			"messages":  store.Len(char.ID),
		}).Debug("Restored transcript")
	}

	engine := playground.NewEngine(client, control, baseline, char, st.ConversationID)

	st.ActiveCharacter = char.ID
	st.ConversationID = engine.ConversationID()
	if err := state.Save(cfg.DataDir(), st); err != nil {
		return err
	}

	p := tea.NewProgram(newPlayModel(engine, cfg), tea.WithAltScreen())
	_, runErr := p.Run()

	// Best-effort teardown: tell the endpoint to drop the session, then rotate
	// the conversation id so the next session can't be conflated with it. The
	// local transcripts stay on disk.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Clear(ctx, engine.ConversationID()); err != nil {
		log.WithError(err).Warn("Teardown session clear failed")
	}
	st.ConversationID = uuid.NewString()
	if err := state.Save(cfg.DataDir(), st); err != nil {
		return err
	}
	return runErr
}
