package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vibegpt/playground/pkg/playground"
	"github.com/vibegpt/playground/pkg/state"
)

// NewResetCmd creates the vibegpt reset command.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [character]",
		Short: "Clear both transcripts for a character and discard the remote session",
		Long: `Clears the persisted control and baseline transcripts for a character,
asks the endpoint to discard its session state (best effort), and assigns a
fresh conversation id for subsequent turns. Defaults to the last active
character.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReset,
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadPlaygroundConfig()
	if err != nil {
		return err
	}
	st, err := state.Load(cfg.DataDir())
	if err != nil {
		return err
	}

	requested := ""
	if len(args) > 0 {
		requested = args[0]
	}
	char, err := cfg.ActiveCharacter(requested, st.ActiveCharacter)
	if err != nil {
		return err
	}

	// Best effort: a dead endpoint must not keep us from clearing locally.
	if st.ConversationID != "" && cfg.EndpointURL != "" {
		client := playground.NewHTTPClient(cfg.EndpointURL, cfg.APIKey)
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		defer cancel()
		if err := client.Clear(ctx, st.ConversationID); err != nil {
			fmt.Printf("%s remote session clear failed: %v\n", color.YellowString("warning:"), err)
		}
	}

	archive := playground.NewArchive(cfg.HistoryDir())
	for _, v := range playground.Variants {
		if err := archive.Purge(v, char.ID); err != nil {
			return err
		}
	}

	st.ConversationID = uuid.NewString()
	if err := state.Save(cfg.DataDir(), st); err != nil {
		return err
	}

	fmt.Printf("Cleared both transcripts for %s.\n", color.New(color.Bold).Sprint(char.Name))
	return nil
}
