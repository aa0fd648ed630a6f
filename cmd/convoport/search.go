package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satriahrh/convoport/internal/application/discover"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find a chat session or conversation by id or name fragment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		svc := &discover.Service{Platform: a.platform, Log: a.log}
		matches := svc.Search(cmd.Context(), args[0])

		if len(matches) == 0 {
			fmt.Printf("no matches for %q\n", args[0])
			return nil
		}
		for _, m := range matches {
			name := m.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%s %s %s via %s\n", m.Kind, m.ID, name, m.Where)
		}
		return nil
	},
}
