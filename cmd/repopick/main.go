package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/repopick"
	"github.com/hayeah/repopick/internal/clipboard"
	"github.com/hayeah/repopick/internal/config"
	"github.com/hayeah/repopick/internal/index"
	"github.com/hayeah/repopick/internal/metrics"
	"github.com/hayeah/repopick/internal/session"
	"github.com/hayeah/repopick/internal/treeview"
)

// Args defines the command-line arguments
type Args struct {
	Repo           string `arg:"positional" help:"Repository path (default: current directory)"`
	Output         string `arg:"-o,--output" help:"Output destination: '-' for stdout; file path to write; if not set, copy to clipboard"`
	TokenEstimator string `arg:"--token-estimator" help:"Token count estimator: 'simple' (size/4) or 'tiktoken'"`
	Debug          bool   `arg:"--debug" help:"Print the assembled artifact before exit"`
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args   Args
	Logger *slog.Logger
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args) *Runner {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return &Runner{Args: args, Logger: logger}
}

// Run resolves the repository, builds the index, drives the interactive
// session, and delivers the assembled bundle.
func (r *Runner) Run() error {
	start := r.Args.Repo
	if start == "" {
		start = "."
	}
	root, err := findRepoRoot(start)
	if err != nil {
		return fmt.Errorf("failed to resolve repository root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	output := r.Args.Output
	if output == "" {
		output = cfg.Output
	}
	estimator := r.Args.TokenEstimator
	if estimator == "" {
		estimator = cfg.TokenEstimator
	}
	counter, err := metrics.NewCounter(estimator)
	if err != nil {
		return err
	}

	ix, err := index.Build(context.Background(), root, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", root, err)
	}

	sess := session.New(ix)
	if _, err := tea.NewProgram(newModel(sess)).Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}

	if sess.State() == session.Aborted {
		fmt.Fprintln(os.Stderr, "Aborted, nothing copied")
		return nil
	}

	rels := sess.SelectedRel()
	if len(rels) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing selected, nothing copied")
		return nil
	}

	sorted := treeview.SortPaths(rels)
	tree := treeview.Render(sorted)

	var buf strings.Builder
	bw := repopick.NewBundleWriter(root, r.Logger)
	if err := bw.Output(&buf, tree, sorted); err != nil {
		return fmt.Errorf("failed to assemble bundle: %w", err)
	}
	artifact := buf.String()

	if err := r.deliver(output, artifact); err != nil {
		return err
	}

	if r.Args.Debug {
		fmt.Println(artifact)
	}
	fmt.Fprintln(os.Stderr, metrics.Summary(counter, len(sorted), artifact))
	return nil
}

// deliver routes the artifact per --output: '-' to stdout, a path to a
// file, otherwise the clipboard with a temp-file fallback.
func (r *Runner) deliver(output, artifact string) error {
	switch {
	case output == "-":
		_, err := io.WriteString(os.Stdout, artifact)
		return err
	case output != "":
		if err := os.WriteFile(output, []byte(artifact), 0644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", output)
		return nil
	default:
		res, err := clipboard.Write(artifact)
		if err != nil {
			return err
		}
		if res.Sink == clipboard.FallbackFile {
			fmt.Fprintf(os.Stderr, "Clipboard unavailable; output saved to %s\n", res.Path)
		} else {
			fmt.Fprintln(os.Stderr, "Output copied to clipboard")
		}
		return nil
	}
}

// findRepoRoot returns the repository root by looking for a .git directory,
// starting from startPath and moving up until the filesystem root.
func findRepoRoot(startPath string) (string, error) {
	currentPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	for {
		gitPath := filepath.Join(currentPath, ".git")
		if info, err := os.Stat(gitPath); err == nil && info.IsDir() {
			return currentPath, nil
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			return "", fmt.Errorf("no .git directory found up to filesystem root")
		}
		currentPath = parentPath
	}
}

// main is our entrypoint: parse args and run the application
func main() {
	var args Args
	arg.MustParse(&args)

	runner := NewRunner(args)
	if err := runner.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
