package app

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	createDescription string
	createTags        []string
	createProjectRoot string

	createCmd = &cobra.Command{
		Use:   "create <name> <python>",
		Short: "Create a new environment",
		Long: `Provision a new virtual environment with uv and start tracking it.

The python argument is the interpreter version for the environment
(e.g. 3.11.0); uv downloads the interpreter if it is not already
available. Description, tags, and project root are stored with the
environment and can be changed later with 'uvve edit'.`,
		Example: `  # Create an environment for Python 3.11
  uvve create web 3.11.0

  # Create with metadata attached
  uvve create ml 3.12.1 --description "training sandbox" --tag ml --tag gpu`,
		Args: cobra.ExactArgs(2),
		RunE: runCreate,
	}
)

func init() {
	createCmd.Flags().StringVar(&createDescription, "description", "", "environment description")
	createCmd.Flags().StringArrayVar(&createTags, "tag", nil, "tag to attach (repeatable)")
	createCmd.Flags().StringVar(&createProjectRoot, "project-root", "", "project directory this environment belongs to")

	RootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, pythonVersion := args[0], args[1]

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)
	prov := uv.NewProvisioner(envsDir(root))

	if st.Exists(name) {
		return fmt.Errorf("environment %q already exists; pick another name or remove it first", name)
	}
	if prov.Exists(name) {
		return fmt.Errorf("a venv named %q already exists without metadata; run 'uvve doctor'", name)
	}

	spinner := output.NewSpinner(fmt.Sprintf("Creating environment %s (python %s)", name, pythonVersion))
	spinner.Start()

	if err := prov.Create(name, pythonVersion); err != nil {
		spinner.Stop()
		return err
	}

	rec, err := st.Create(name, pythonVersion, store.CreateOptions{
		Description: createDescription,
		Tags:        createTags,
		ProjectRoot: createProjectRoot,
	})
	if err != nil {
		spinner.Stop()
		// Metadata failed, so the venv would be invisible to uvve. Roll the
		// provisioned directory back rather than leave an untracked env.
		if rmErr := prov.Remove(name); rmErr != nil {
			return fmt.Errorf("metadata creation failed (%v); venv rollback also failed: %w", err, rmErr)
		}
		return fmt.Errorf("failed to create metadata for %s: %w", name, err)
	}

	spinner.StopWithMessage(fmt.Sprintf("✓ Environment %s created (python %s)", rec.Name, rec.PythonVersion))

	ledger, err := history.Open(historyPath(root))
	if err != nil {
		return fmt.Errorf("environment created, but the history ledger failed to open: %w", err)
	}
	defer ledger.Close()
	if err := ledger.Append(name, history.KindCreated, clock.Now().UTC()); err != nil {
		return fmt.Errorf("environment created, but recording the event failed: %w", err)
	}

	fmt.Println()
	fmt.Println("To activate:")
	fmt.Printf("  eval \"$(uvve activate %s)\"\n", name)
	return nil
}
