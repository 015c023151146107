package app

import (
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/store"
)

var (
	editDescription      string
	editAddTags          []string
	editRemoveTags       []string
	editProjectRoot      string
	editClearProjectRoot bool

	editCmd = &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit environment metadata",
		Long: `Change the description, tags, or project root of an environment.

Name and python version are fixed at creation, and the usage fields
are owned by 'uvve activate'. Tags behave as a set: adding a tag that
is already present is a no-op, as is removing one that is absent.`,
		Example: `  # Update the description
  uvve edit web --description "production API backend"

  # Tag management
  uvve edit web --add-tag prod --remove-tag scratch

  # Point the environment at its project
  uvve edit web --project-root ~/src/web

  # Unset the project root
  uvve edit web --clear-project-root`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}
)

func init() {
	editCmd.Flags().StringVar(&editDescription, "description", "", "new description (an empty string clears it)")
	editCmd.Flags().StringArrayVar(&editAddTags, "add-tag", nil, "tag to add (repeatable)")
	editCmd.Flags().StringArrayVar(&editRemoveTags, "remove-tag", nil, "tag to remove (repeatable)")
	editCmd.Flags().StringVar(&editProjectRoot, "project-root", "", "project directory this environment belongs to")
	editCmd.Flags().BoolVar(&editClearProjectRoot, "clear-project-root", false, "unset the project root")

	RootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	name := args[0]

	if editClearProjectRoot && cmd.Flags().Changed("project-root") {
		return fmt.Errorf("cannot combine --project-root with --clear-project-root")
	}
	if !cmd.Flags().Changed("description") &&
		len(editAddTags) == 0 && len(editRemoveTags) == 0 &&
		!cmd.Flags().Changed("project-root") && !editClearProjectRoot {
		return fmt.Errorf("nothing to edit: pass --description, --add-tag, --remove-tag, --project-root, or --clear-project-root")
	}

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	st := store.New(envsDir(root), clockwork.NewRealClock())

	rec, err := st.Load(name)
	if err != nil {
		return err
	}

	var changes []string
	if cmd.Flags().Changed("description") {
		rec.Description = editDescription
		changes = append(changes, "description")
	}
	for _, tag := range editAddTags {
		rec.AddTag(tag)
	}
	if len(editAddTags) > 0 {
		changes = append(changes, "tags added")
	}
	for _, tag := range editRemoveTags {
		rec.RemoveTag(tag)
	}
	if len(editRemoveTags) > 0 {
		changes = append(changes, "tags removed")
	}
	if editClearProjectRoot {
		rec.ProjectRoot = ""
		changes = append(changes, "project root cleared")
	} else if cmd.Flags().Changed("project-root") {
		rec.ProjectRoot = editProjectRoot
		changes = append(changes, "project root")
	}

	if err := st.Save(rec); err != nil {
		return err
	}

	fmt.Printf("✓ Updated %s (%s)\n", name, strings.Join(changes, ", "))
	return nil
}
