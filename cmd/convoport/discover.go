package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satriahrh/convoport/internal/application/discover"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Probe the account for chat sessions, projects, deployments and agents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		svc := &discover.Service{Platform: a.platform, Log: a.log}
		report := svc.Run(cmd.Context())

		for _, p := range report.Probes {
			if p.Err != "" {
				fmt.Printf("%s: error: %s\n", p.Name, p.Err)
				continue
			}
			fmt.Printf("%s: %d\n", p.Name, p.Count)
			for _, s := range p.Samples {
				fmt.Printf("  %s\n", s)
			}
		}
		if !report.FoundAnything {
			fmt.Println("no chat data found; check the API key and account")
		}
		return nil
	},
}
