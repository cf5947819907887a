package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibegpt/playground/pkg/playground"
	"github.com/vibegpt/playground/pkg/state"
)

var historyVariant string

// NewHistoryCmd creates the vibegpt history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [character]",
		Short: "Print the persisted transcripts for a character",
		Long: `Prints the persisted control and baseline transcripts for a character
without opening the playground. Defaults to the last active character.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
	cmd.Flags().StringVar(&historyVariant, "variant", "", "Limit output to one variant: control or baseline")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	variants := playground.Variants
	if historyVariant != "" {
		v := playground.Variant(historyVariant)
		if v != playground.VariantControl && v != playground.VariantBaseline {
			return fmt.Errorf("unknown variant %q (want control or baseline)", historyVariant)
		}
		variants = []playground.Variant{v}
	}

	archive := playground.NewArchive(cfg.HistoryDir())
	header := color.New(color.Bold, color.Underline)
	printed := false
	for _, v := range variants {
		msgs := archive.Load(v, char.ID)
		if len(msgs) == 0 {
			continue
		}
		printed = true
		header.Printf("%s (%s)\n", char.Name, v)
		for _, msg := range msgs {
			printTranscriptMessage(char, msg)
		}
		fmt.Println()
	}
	if !printed {
		fmt.Printf("No persisted history for %s.\n", char.Name)
	}
	return nil
}

func printTranscriptMessage(char playground.Character, msg playground.Message) {
	switch msg.Role {
	case playground.RoleUser:
		color.New(color.FgCyan, color.Bold).Println("You")
	case playground.RoleAssistant:
		color.New(color.FgGreen, color.Bold).Println(char.Name)
	case playground.RoleError:
		color.New(color.FgRed, color.Bold).Println("Error")
	case playground.RoleSystem:
		color.New(color.FgYellow, color.Bold).Println("System")
	}
	fmt.Println(msg.Text())
}
