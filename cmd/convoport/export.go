package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appexport "github.com/satriahrh/convoport/internal/application/export"
	"github.com/satriahrh/convoport/internal/domain/catalog"
)

var skipExisting bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chat transcripts to HTML and JSON files",
}

func init() {
	exportCmd.PersistentFlags().BoolVar(&skipExisting, "skip-existing", false, "skip resources already present in the export index")
	exportCmd.AddCommand(exportSessionsCmd)
	exportCmd.AddCommand(exportDeploymentCmd)
	exportCmd.AddCommand(exportDeploymentsCmd)
	exportCmd.AddCommand(exportProjectsCmd)
}

// runExport wires the app, runs one export pass and prints its summary.
// Item-level failures are reported in the summary, not as a command error.
func runExport(cmd *cobra.Command, pass func(a *app, svc *appexport.Service, opts appexport.Options) (*appexport.Summary, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	svc, err := a.exportService(cmd.Context())
	if err != nil {
		return err
	}

	summary, err := pass(a, svc, appexport.Options{SkipExisting: skipExisting})
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

var exportSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Export the account's chat sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(a *app, svc *appexport.Service, opts appexport.Options) (*appexport.Summary, error) {
			return svc.Sessions(cmd.Context(), opts)
		})
	},
}

var exportDeploymentCmd = &cobra.Command{
	Use:   "deployment [id]",
	Short: "Export the conversations of one deployment",
	Long: `Export the conversations of one deployment. The deployment id comes from
the argument, or from PLATFORM_DEPLOYMENT_ID when omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(a *app, svc *appexport.Service, opts appexport.Options) (*appexport.Summary, error) {
			id := a.cfg.Platform.DeploymentID
			if len(args) > 0 {
				id = args[0]
			}
			if id == "" {
				return nil, fmt.Errorf("deployment id is required: pass it as an argument or set PLATFORM_DEPLOYMENT_ID")
			}
			return svc.Deployment(cmd.Context(), catalog.DeploymentID(id), opts)
		})
	},
}

var exportDeploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "Export conversations across every deployment in every project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(a *app, svc *appexport.Service, opts appexport.Options) (*appexport.Summary, error) {
			return svc.AllDeployments(cmd.Context(), opts)
		})
	},
}

var exportProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Export chat data project by project, following each project's use case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, func(a *app, svc *appexport.Service, opts appexport.Options) (*appexport.Summary, error) {
			return svc.Projects(cmd.Context(), opts)
		})
	},
}
