package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satriahrh/convoport/internal/application/pdfbatch"
	"github.com/satriahrh/convoport/internal/domain/catalog"
	"github.com/satriahrh/convoport/internal/infra/activitylog"
)

var (
	pdfDeploymentID string
	pdfSourceDir    string
	pdfRecursive    bool
	pdfYes          bool
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Batch-process PDF files through a deployment",
}

var pdfProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Upload each PDF in a directory and run the standard prompt battery",
	Long: `Upload each PDF in a directory to a deployment and issue the standard
prompts against it. Every file gets its own conversation, and every step is
recorded in ` + activitylog.FileName + ` as it happens.

Missing inputs are prompted for interactively; pass --yes to skip the
confirmation step.`,
	Args: cobra.NoArgs,
	RunE: runPDFProcess,
}

func init() {
	pdfProcessCmd.Flags().StringVar(&pdfDeploymentID, "deployment", "", "deployment id (defaults to PLATFORM_DEPLOYMENT_ID)")
	pdfProcessCmd.Flags().StringVar(&pdfSourceDir, "dir", "", "directory containing the PDFs")
	pdfProcessCmd.Flags().BoolVar(&pdfRecursive, "recursive", false, "descend into subdirectories")
	pdfProcessCmd.Flags().BoolVarP(&pdfYes, "yes", "y", false, "run without asking for confirmation")
	pdfCmd.AddCommand(pdfProcessCmd)
}

func runPDFProcess(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in := bufio.NewReader(cmd.InOrStdin())

	deploymentID := pdfDeploymentID
	if deploymentID == "" {
		deploymentID = a.cfg.Platform.DeploymentID
	}
	if deploymentID == "" {
		deploymentID, err = ask(in, "Deployment id: ")
		if err != nil {
			return err
		}
	}
	if deploymentID == "" {
		return fmt.Errorf("deployment id is required")
	}

	sourceDir := pdfSourceDir
	if sourceDir == "" {
		sourceDir, err = ask(in, "Directory containing PDFs: ")
		if err != nil {
			return err
		}
	}
	if sourceDir == "" {
		return fmt.Errorf("source directory is required")
	}

	recursive := pdfRecursive
	if !cmd.Flags().Changed("recursive") && !pdfYes {
		answer, err := ask(in, "Include subdirectories? [y/N]: ")
		if err != nil {
			return err
		}
		recursive = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}

	pdfs, err := pdfbatch.FindPDFs(sourceDir, recursive)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		fmt.Println("no PDF files found, nothing to do")
		return nil
	}

	fmt.Printf("found %d PDF file(s) in %s\n", len(pdfs), sourceDir)
	if !pdfYes {
		answer, err := ask(in, fmt.Sprintf("Process %d file(s) against deployment %s? [y/N]: ", len(pdfs), deploymentID))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("aborted")
			return nil
		}
	}

	activity, err := newActivityStore(a.cfg.Export.Dir)
	if err != nil {
		return err
	}

	svc := &pdfbatch.Service{
		Platform: a.platform,
		Activity: activity,
		Clock:    a.clock,
		Log:      a.log,
	}

	summary, err := svc.Process(cmd.Context(), pdfbatch.Command{
		DeploymentID: catalog.DeploymentID(deploymentID),
		SourceDir:    sourceDir,
		Recursive:    recursive,
	})
	if err != nil {
		return err
	}

	fmt.Printf("processed=%d successful=%d failed=%d (activity log: %s)\n",
		summary.Total, summary.Successful, summary.Failed, activity.Path())
	return nil
}

// newActivityStore anchors the activity log under dir, next to the export
// artifacts, creating the directory if needed.
func newActivityStore(dir string) (*activitylog.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return activitylog.NewStore(dir), nil
}

func ask(in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
