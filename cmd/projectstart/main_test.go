package main

import "testing"

func TestRootCommand_RequiresTwoArguments(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"projects.tsv"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when the goal file argument is missing")
	}
}

func TestRootCommand_FlagDefaults(t *testing.T) {
	cmd := newRootCommand()

	config, err := cmd.Flags().GetString("config")
	if err != nil {
		t.Fatalf("config flag: %v", err)
	}
	if config != "config.yaml" {
		t.Fatalf("config default = %q, want config.yaml", config)
	}

	for _, name := range []string{"dry-run", "verbose", "overwrite-wiki"} {
		value, err := cmd.Flags().GetBool(name)
		if err != nil {
			t.Fatalf("%s flag: %v", name, err)
		}
		if value {
			t.Fatalf("%s defaults to true, want false", name)
		}
	}

	year, err := cmd.Flags().GetInt("year")
	if err != nil {
		t.Fatalf("year flag: %v", err)
	}
	if year != 0 {
		t.Fatalf("year default = %d, want 0 (current year)", year)
	}
}
