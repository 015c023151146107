package app

import (
	"testing"
)

func TestCreateCommandFlags(t *testing.T) {
	for _, name := range []string{"description", "tag", "project-root"} {
		if createCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to be registered", name)
		}
	}
}

func TestCreateCommandArgs(t *testing.T) {
	// create requires exactly <name> <python>
	if err := createCmd.Args(createCmd, []string{"web"}); err == nil {
		t.Error("expected an error with one argument")
	}
	if err := createCmd.Args(createCmd, []string{"web", "3.12.1"}); err != nil {
		t.Errorf("unexpected error with two arguments: %v", err)
	}
	if err := createCmd.Args(createCmd, []string{"web", "3.12.1", "extra"}); err == nil {
		t.Error("expected an error with three arguments")
	}
}
