package classify

import (
	"context"
	"log"
	"os/exec"
	"time"

	"sample-pipeline/file-detection/internal/config"
)

// Invoker runs one external classification tool over a sample on disk and
// returns the tool's raw textual output. A false result means "no result":
// every invocation failure (missing binary, non-zero exit, timeout) is
// converted at this boundary and never surfaces as an error further in.
type Invoker interface {
	Name() string
	Invoke(ctx context.Context, samplePath string) (string, bool)
}

type execInvoker struct {
	name    string
	bin     string
	args    []string
	timeout time.Duration
}

// NewExec wraps one configured tool binary as an Invoker. The sample path is
// appended after the configured args.
func NewExec(name string, cfg config.ClassifierConfig) Invoker {
	to := cfg.Timeout
	if to == 0 {
		to = 60 * time.Second
	}
	return &execInvoker{name: name, bin: cfg.Bin, args: cfg.Args, timeout: to}
}

func (e *execInvoker) Name() string { return e.name }

func (e *execInvoker) Invoke(ctx context.Context, samplePath string) (string, bool) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := make([]string, 0, len(e.args)+1)
	args = append(args, e.args...)
	args = append(args, samplePath)

	out, err := exec.CommandContext(cctx, e.bin, args...).Output()
	if err != nil {
		// TrID exits non-zero on unreadable files, DiE on bad args; either
		// way the classifier has no result for this sample.
		log.Printf("%s: %v", e.name, err)
		return "", false
	}
	return string(out), true
}

// Disabled is an Invoker that never produces output. Used when a tool is
// switched off in config so the worker loop stays uniform.
type Disabled string

func (d Disabled) Name() string { return string(d) }

func (d Disabled) Invoke(ctx context.Context, samplePath string) (string, bool) {
	return "", false
}
