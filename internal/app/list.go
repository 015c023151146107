package app

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/analyzer"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	listSizes bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List environments with usage and health",
		Long: `List all managed environments with python version, activation count,
last-used time, tags, and health tier.

Health tiers:
  healthy          recently and regularly used
  warning          going stale or barely used
  needs attention  never used or critically stale

Thresholds come from config.yaml under the uvve root; the defaults are
30 days (stale), 90 days (critical), and 5 activations (low usage).`,
		Example: `  # List environments
  uvve list

  # Include disk usage (slower: walks every venv)
  uvve list --sizes`,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().BoolVar(&listSizes, "sizes", false, "measure and show disk usage per environment")

	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)

	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No environments found. Run 'uvve create <name> <python>' to create one.")
		return nil
	}

	policy, err := loadPolicy(root)
	if err != nil {
		return err
	}

	if listSizes {
		refreshSizes(st, uv.NewProvisioner(envsDir(root)), records)
	}

	rows := envRows(records, clock.Now().UTC(), policy)
	fmt.Print(output.RenderEnvTable(rows, listSizes))
	return nil
}

// envRows converts records into table rows with the health tier attached.
func envRows(records []*store.EnvironmentRecord, now time.Time, policy analyzer.Policy) []output.EnvRow {
	rows := make([]output.EnvRow, len(records))
	for i, rec := range records {
		rows[i] = output.EnvRow{
			Name:          rec.Name,
			PythonVersion: rec.PythonVersion,
			UsageCount:    rec.UsageCount,
			LastUsed:      rec.LastUsed,
			Tags:          rec.Tags,
			SizeBytes:     rec.SizeBytes,
			Health:        string(analyzer.Classify(rec, now, policy)),
		}
	}
	return rows
}
