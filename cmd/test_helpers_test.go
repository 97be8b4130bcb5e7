package cmd

import (
	"bytes"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// lockedBuffer lets the progress goroutine and the test share one writer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupTestAppContext installs a nop-logger AppContext with default config.
func setupTestAppContext(t *testing.T) *AppContext {
	t.Helper()

	original := globalAppContext
	appCtx := &AppContext{
		Logger: zap.NewNop(),
		Config: newCLIConfig(),
	}
	globalAppContext = appCtx

	t.Cleanup(func() {
		globalAppContext = original
	})
	return appCtx
}

// resetCLIState clears flag, viper and config state shared by the command tree.
func resetCLIState(t *testing.T) {
	t.Helper()

	reset := func() {
		clearChanged(rootCmd.PersistentFlags())
		clearChanged(scanCmd.Flags())
		clearChanged(versionCmd.Flags())
		fresh := newCLIConfig()
		cliConfig.Log = fresh.Log
		cliConfig.Scan = fresh.Scan
		cfgFile = ""
		viper.Reset()
	}

	original := globalAppContext
	origResolver := resolverFactory
	reset()
	t.Setenv("HOME", t.TempDir())

	t.Cleanup(func() {
		reset()
		globalAppContext = original
		resolverFactory = origResolver
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

func clearChanged(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() != "stringSlice" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}
