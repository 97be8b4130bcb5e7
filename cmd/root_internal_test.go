package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
)

func TestStoreAndGetAppContext(t *testing.T) {
	original := globalAppContext
	defer func() {
		globalAppContext = original
	}()

	cmd := &cobra.Command{Use: "root"}
	appCtx := &AppContext{Config: newCLIConfig()}

	storeAppContext(cmd, appCtx)

	if got := getAppContext(cmd); got != appCtx {
		t.Fatalf("expected stored app context to be returned")
	}
	if got, _ := cmd.Context().Value(appContextKey{}).(*AppContext); got != appCtx {
		t.Fatalf("expected app context on the command context")
	}
}

func TestGetAppContextFallsBackToGlobal(t *testing.T) {
	appCtx := setupTestAppContext(t)

	cmd := &cobra.Command{Use: "bare"}
	cmd.SetContext(context.Background())

	if got := getAppContext(cmd); got != appCtx {
		t.Fatalf("expected global app context fallback")
	}
}

func TestGetAppContextDefault(t *testing.T) {
	original := globalAppContext
	globalAppContext = nil
	defer func() {
		globalAppContext = original
	}()

	got := getAppContext(nil)
	if got.Logger == nil {
		t.Fatal("expected a nop logger in the default app context")
	}
	if got.Config != cliConfig {
		t.Fatal("expected the default app context to use the shared CLI config")
	}
}
