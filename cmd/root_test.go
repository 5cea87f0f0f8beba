package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/wbuck/azvm-manager/internal/testutil"
	"github.com/wbuck/azvm-manager/pkg/logger"
)

func ExecuteCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorf("Panic occurred: %v", r)
			_ = logger.Get().Sync()
			err = fmt.Errorf("panic occurred: %v", r)
		}
	}()

	_, err = root.ExecuteC()

	// Ensure logs are flushed
	_ = logger.Get().Sync()

	return buf.String(), err
}

// writeTestConfig writes a config file with stored defaults and fast
// polling into a temp dir and returns its path.
func writeTestConfig(t *testing.T, defaults string) string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "azvm.log")
	path := testutil.WriteStringToTempFile(t, ".azvm.yaml", defaults+fmt.Sprintf(`
poll:
  state_interval: 1ms
general:
  log_path: %s
  log_level: debug
`, logPath))
	t.Cleanup(func() {
		logger.Sync()
		logger.SetGlobalLogger(nil)
	})
	return path
}
