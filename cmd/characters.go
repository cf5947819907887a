package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibegpt/playground/pkg/playground"
	"github.com/vibegpt/playground/pkg/state"
)

// NewCharactersCmd creates the vibegpt characters command.
func NewCharactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List the configured characters and their trait sets",
		Args:  cobra.NoArgs,
		RunE:  runCharactersList,
	}
}

func runCharactersList(cmd *cobra.Command, args []string) error {
	cfg, err := loadPlaygroundConfig()
	if err != nil {
		return err
	}
	st, err := state.Load(cfg.DataDir())
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	// Characters with a persisted transcript under either variant.
	archive := playground.NewArchive(cfg.HistoryDir())
	saved := make(map[string]bool)
	for _, v := range playground.Variants {
		for _, id := range archive.Characters(v) {
			saved[id] = true
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, char := range cfg.Characters {
		marker := " "
		if char.ID == st.ActiveCharacter || (st.ActiveCharacter == "" && char.ID == cfg.DefaultCharacter) {
			marker = color.GreenString("*")
		}
		label := char.ID
		if saved[char.ID] {
			label += "  (saved history)"
		}
		fmt.Fprintf(w, "%s %s\t%s\n", marker, bold.Sprint(char.Name), faint.Sprint(label))
		for _, trait := range char.Traits {
			fmt.Fprintf(w, "    %s\t%d%%\t%s\n", trait.Name, trait.DisplayPercent(), faint.Sprint(trait.Desc))
		}
	}
	return w.Flush()
}
