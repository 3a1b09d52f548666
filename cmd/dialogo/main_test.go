package main

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	expected := map[string]bool{"run": false, "devices": false, "check": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := expected[cmd.Name()]; ok {
			expected[cmd.Name()] = true
		}
	}
	for name, registered := range expected {
		if !registered {
			t.Fatalf("expected a %q subcommand on the root command", name)
		}
	}
}

func TestRootCommandExposesSessionFlags(t *testing.T) {
	for _, name := range []string{"provider", "synthesizer", "voice", "backend", "capture-device", "playback-device"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("expected a persistent %q flag", name)
		}
	}
	for _, name := range []string{"duration", "look-ahead", "persona-file", "no-ui"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Fatalf("expected a %q flag on the run command", name)
		}
	}
}
