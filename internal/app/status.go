package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/analyzer"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	statusCurrent bool

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Fleet overview: totals, health, disk usage",
		Long: `Show the state of the whole environment fleet: how many environments
exist, their health tier breakdown, how many sit unused, and how much
disk they occupy.

With --current, print only the name of the environment active in this
shell (from $VIRTUAL_ENV) and nothing else, for embedding in prompts.`,
		Example: `  # Fleet overview
  uvve status

  # Active environment name, for shell prompts
  uvve status --current`,
		RunE: runStatus,
	}
)

func init() {
	statusCmd.Flags().BoolVar(&statusCurrent, "current", false, "print only the active environment name")

	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := uvveRoot()
	if err != nil {
		return err
	}

	if statusCurrent {
		name := currentEnvironment(envsDir(root))
		if name == "" {
			return fmt.Errorf("no uvve environment is active")
		}
		fmt.Println(name)
		return nil
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

	// Remeasure so the disk figure is current rather than last-cached.
	refreshSizes(st, uv.NewProvisioner(envsDir(root)), records)

	summary := analyzer.Summarize(records, clock.Now().UTC(), policy)

	const label = "%-15s"
	fmt.Println("uvve Status")
	fmt.Println()
	fmt.Printf(label+"%d\n", "Environments:", summary.Total)
	fmt.Printf(label+"%s\n", "Health:", output.RenderHealthSummary(summary.Healthy, summary.Warning, summary.NeedsAttention))
	fmt.Printf(label+"%d (%d never used)\n", "Unused:", summary.Unused, summary.NeverUsed)
	fmt.Printf(label+"%.0f%% activated in the last %d days\n", "Efficiency:", summary.Efficiency(), policy.StaleDays)
	fmt.Printf(label+"%s\n", "Disk:", humanize.Bytes(uint64(summary.TotalSizeBytes)))

	if summary.Unused > 0 {
		fmt.Println()
		fmt.Printf("Found %d unused environment(s). Review them with 'uvve cleanup --dry-run'.\n", summary.Unused)
	}
	return nil
}
