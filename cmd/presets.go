package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexgrove/dealflow-cli/internal/filter"
)

var (
	presetsShow string
	presetsSave string
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List filter presets or show one resolved configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		if presetsSave != "" {
			resolved, err := filter.ApplyPreset(presetsSave)
			if err != nil {
				return err
			}
			s, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			if err := s.SaveFilterSettings(cmd.Context(), presetsSave, resolved); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", presetsSave)
			return nil
		}

		if presetsShow == "" {
			for _, name := range filter.PresetNames() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		cfg, err := filter.ApplyPreset(presetsShow)
		if err != nil {
			return err
		}
		for _, crit := range cfg.Criteria() {
			mode := "flexible"
			if crit.StrictMode {
				mode = "strict"
			}
			state := "enabled"
			if !crit.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "%-13s %-9s %s\n", crit.Name, state, mode)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVar(&presetsShow, "show", "", "preset to resolve and print")
	presetsCmd.Flags().StringVar(&presetsSave, "save", "", "preset to resolve and persist to the store")
	rootCmd.AddCommand(presetsCmd)
}
