package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
	"github.com/hugo-lorenzo-mato/venturepilot/internal/testutil"
)

var categorySubdirs = map[core.Category]string{
	core.CategoryPolicy:   "policies",
	core.CategoryInvestor: "investors",
	core.CategoryNews:     "news",
	core.CategoryReport:   "reports",
}

// isolate points configuration at an empty home, disables credentials and
// stores history under a temp dir. It returns the temp root.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("MISTRAL_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("VENTUREPILOT_LLM_API_KEY", "")
	t.Setenv("VENTUREPILOT_STORE_PATH", filepath.Join(root, "history", "analyses.db"))
	t.Setenv("VENTUREPILOT_LOG_LEVEL", "error")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	resetFlags()
	t.Cleanup(resetFlags)
	return root
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	reset(rootCmd.Flags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}
}

// writeCorpus writes the sample corpus under dir, one JSON file per category,
// plus a policy without a source and one unreadable file.
func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	byCat := map[core.Category][]core.Document{}
	for _, d := range testutil.SampleCorpus() {
		byCat[d.Category] = append(byCat[d.Category], d)
	}
	byCat[core.CategoryPolicy] = append(byCat[core.CategoryPolicy], core.Document{
		Text: "Unsourced scheme", Timestamp: "2024-01-01", Geography: "India",
	})
	for cat, docs := range byCat {
		sub := filepath.Join(dir, categorySubdirs[cat])
		require.NoError(t, os.MkdirAll(sub, 0o750))
		data, err := json.Marshal(docs)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(sub, "docs.json"), data, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "news", "broken.json"), []byte("{"), 0o600))
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}
