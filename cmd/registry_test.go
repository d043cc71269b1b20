package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestApply_AddsRegisteredCommands(t *testing.T) {
	Apply()
	Apply()

	for _, name := range []string{"sales:import", "stock:register", "stock:set", "stock:delta", "stock:metrics", "stock:list", "db:migrate", "cron:start"} {
		found := 0
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found++
			}
		}
		if found != 1 {
			t.Errorf("%s registered %d times, want 1", name, found)
		}
	}
}

func TestRegister_AfterApplyPanics(t *testing.T) {
	Apply()
	defer func() {
		if recover() == nil {
			t.Error("Register after Apply did not panic")
		}
	}()
	Register(&cobra.Command{Use: "late:command"})
}
