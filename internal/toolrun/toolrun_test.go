package toolrun

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	pcerrors "git.home.luguber.info/inful/panelctl/internal/errors"
)

// The tests re-run the test binary itself as the "external tool" so they work
// on any platform without depending on schtasks/pnputil being present.
func TestMain(m *testing.M) {
	switch os.Getenv("TOOLRUN_HELPER") {
	case "ok":
		fmt.Println("helper output")
		os.Exit(0)
	case "fail":
		fmt.Println("helper failure detail")
		os.Exit(3)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func helperRunner(t *testing.T, mode string, timeout time.Duration) (Result, error) {
	t.Helper()
	t.Setenv("TOOLRUN_HELPER", mode)
	r := Runner{Timeout: timeout}
	return r.Run(context.Background(), os.Args[0], "-test.run=TestMain")
}

func TestRunSuccess(t *testing.T) {
	res, err := helperRunner(t, "ok", 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if res.Output == "" {
		t.Fatal("expected captured output")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	res, err := helperRunner(t, "fail", 0)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !pcerrors.IsCategory(err, pcerrors.CategoryTool) {
		t.Fatalf("error category = %v", pcerrors.GetCategory(err))
	}
	if res.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", res.ExitCode)
	}
	// The captured output must survive into the result for diagnostics.
	if res.Output == "" {
		t.Fatal("expected captured output on failure")
	}
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := helperRunner(t, "hang", 500*time.Millisecond)
	if err == nil {
		t.Fatal("expected error for timed-out tool")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout not enforced, took %v", elapsed)
	}
	if !pcerrors.IsCategory(err, pcerrors.CategoryTool) {
		t.Fatalf("error category = %v", pcerrors.GetCategory(err))
	}
}

func TestRunToolNotFound(t *testing.T) {
	r := Runner{}
	_, err := r.Run(context.Background(), "panelctl-no-such-tool-exists")
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !pcerrors.IsCategory(err, pcerrors.CategoryTool) {
		t.Fatalf("error category = %v", pcerrors.GetCategory(err))
	}
}
