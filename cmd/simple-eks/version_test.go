package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	version := getVersion()

	if version == "" {
		t.Error("getVersion() returned empty string")
	}

	// Tests run without ldflags, so the version is "dev" unless installed
	// with go install @version.
	if version != "dev" && !strings.HasPrefix(version, "v") {
		t.Errorf("getVersion() = %q, want 'dev' or 'vX.Y.Z'", version)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	if !strings.HasPrefix(out.String(), "simple-eks ") {
		t.Errorf("output = %q, want prefix 'simple-eks '", out.String())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd(&globals{})

	for _, name := range []string{"synth", "validate", "list", "graph", "diff", "watch", "publish", "ack", "optimize", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	for _, flag := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent --%s flag", flag)
		}
	}
}
