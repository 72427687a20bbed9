package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var readersCmd = &cobra.Command{
	Use:   "readers",
	Short: "List available readers",
	RunE:  runReaders,
}

func init() {
	rootCmd.AddCommand(readersCmd)
}

func runReaders(cmd *cobra.Command, _ []string) error {
	if readerRegistry == nil {
		return errors.New("reader registry not configured")
	}

	for _, rt := range readerRegistry.List() {
		cmd.Printf("%s (%s)\n", rt.ID, rt.Name)
		cmd.Printf("  %s\n", rt.Description)
		cmd.Printf("  Location: %s\n", rt.LocationFormat)
		if rt.TokenEnv != "" {
			cmd.Printf("  Token:    %s or %s\n", rt.TokenKey, rt.TokenEnv)
		}
		cmd.Println()
	}
	return nil
}
