// Package git wraps the git commands used by lazystage.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/models"
)

// NotifyFn receives ongoing notifications for the status bar.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// CommandRunner builds the exec.Cmd for a git invocation. It is a field so
// tests can substitute a fake without depending on system binaries.
type CommandRunner func(ctx context.Context, name string, args ...string) *exec.Cmd

// Service orchestrates git commands for the UI. All commands run with the
// repository directory as their working directory.
type Service struct {
	notify     NotifyFn
	notifyOnce NotifyOnceFn
	repoDir    string
	runner     CommandRunner
}

// NewService constructs a Service rooted at repoDir.
func NewService(repoDir string, notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	if notify == nil {
		notify = func(string, string) {}
	}
	if notifyOnce == nil {
		notifyOnce = func(string, string, string) {}
	}
	return &Service{
		notify:     notify,
		notifyOnce: notifyOnce,
		repoDir:    repoDir,
		runner:     exec.CommandContext,
	}
}

// SetRunner overrides command construction, used by tests.
func (s *Service) SetRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// RepoDir returns the repository directory the service operates on.
func (s *Service) RepoDir() string {
	return s.repoDir
}

func (s *Service) command(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 || args[0] != "git" {
		return nil, fmt.Errorf("unsupported command %q", strings.Join(args, " "))
	}
	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := s.runner(ctx, "git", args[1:]...)
	cmd.Dir = s.repoDir
	return cmd, nil
}

// RunGit executes a git command and returns its stdout, optionally trimmed.
// Exit codes outside okReturncodes are reported through notifyOnce unless
// silent is set.
func (s *Service) RunGit(ctx context.Context, args []string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	log.Printf("run: %s (cwd=%s)", command, s.repoDir)

	cmd, err := s.command(ctx, args)
	if err != nil {
		s.notifyOnce("unsupported_cmd:"+command, fmt.Sprintf("Unsupported command: %s", command), "error")
		return ""
	}

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if !silent {
					suffix := strings.TrimSpace(string(exitError.Stderr))
					if suffix == "" {
						suffix = fmt.Sprintf("exit %d", returnCode)
					}
					s.notifyOnce("git_fail:"+command, fmt.Sprintf("Command failed: %s: %s", command, suffix), "error")
				}
				log.Printf("error: %s (exit %d)", command, returnCode)
				return ""
			}
		} else {
			if !silent {
				s.notifyOnce("cmd_missing:git", "Command not found: git", "error")
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	return out
}

// run executes a mutating git command, returning an error with the command's
// stderr detail on failure. Failures are also reported through notify so the
// status bar picks them up.
func (s *Service) run(ctx context.Context, errorPrefix string, args ...string) error {
	command := strings.Join(args, " ")
	log.Printf("run: %s (cwd=%s)", command, s.repoDir)

	cmd, err := s.command(ctx, args)
	if err != nil {
		s.notify(fmt.Sprintf("%s: %v", errorPrefix, err), "error")
		return err
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		s.notify(fmt.Sprintf("%s: %s", errorPrefix, detail), "error")
		return fmt.Errorf("%s: %s", errorPrefix, detail)
	}
	return nil
}

// Open verifies that repoDir is inside a non-bare git repository and pins the
// service to the repository's top-level directory.
func (s *Service) Open(ctx context.Context) error {
	cmd, err := s.command(ctx, []string{"git", "rev-parse", "--is-bare-repository", "--show-toplevel"})
	if err != nil {
		return err
	}
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			detail := strings.TrimSpace(string(exitError.Stderr))
			if detail != "" {
				return fmt.Errorf("open repository: %s", detail)
			}
		}
		return fmt.Errorf("open repository %s: %w", s.repoDir, err)
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "true" {
		return fmt.Errorf("cannot report status on bare repository: %s", s.repoDir)
	}
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		s.repoDir = strings.TrimSpace(lines[1])
	}
	return nil
}

// GitDir returns the repository's git directory for the watcher.
func (s *Service) GitDir(ctx context.Context) string {
	dir := s.RunGit(ctx, []string{"git", "rev-parse", "--git-dir"}, []int{0}, true, true)
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.repoDir, dir)
	}
	return dir
}

// Status queries the pending change-set, split into the three display groups.
func (s *Service) Status(ctx context.Context) (*models.StatusSnapshot, error) {
	cmd, err := s.command(ctx, []string{"git", "status", "--porcelain=v2", "--untracked-files=all"})
	if err != nil {
		return nil, err
	}
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			detail := strings.TrimSpace(string(exitError.Stderr))
			if detail != "" {
				return nil, fmt.Errorf("git status: %s", detail)
			}
		}
		return nil, fmt.Errorf("git status: %w", err)
	}
	return ParseStatusV2(string(output)), nil
}

// Stage stages a path (add, update, or stage a deletion). Directories are
// staged with their full contents.
func (s *Service) Stage(ctx context.Context, path string) error {
	return s.run(ctx, fmt.Sprintf("stage %s", path), "git", "add", "-A", "--", path)
}

// UnstageIndex resets a staged path back to HEAD, moving the change to the
// workspace.
func (s *Service) UnstageIndex(ctx context.Context, path string) error {
	return s.run(ctx, fmt.Sprintf("unstage %s", path), "git", "reset", "-q", "HEAD", "--", path)
}

// UnstageWorkspace removes a workspace path from the index so it shows up as
// untracked. A workspace deletion cannot be un-tracked, so it is discarded
// via checkout instead.
func (s *Service) UnstageWorkspace(ctx context.Context, path, status string) error {
	if status == "deleted" {
		return s.Checkout(ctx, path)
	}
	return s.run(ctx, fmt.Sprintf("untrack %s", path), "git", "rm", "--cached", "-q", "--", path)
}

// Checkout discards all working changes to a path.
func (s *Service) Checkout(ctx context.Context, path string) error {
	return s.run(ctx, fmt.Sprintf("checkout %s", path), "git", "checkout", "--", path)
}

// DeleteUntracked removes an untracked path from the filesystem. The caller
// is responsible for confirming with the user first.
func (s *Service) DeleteUntracked(path string) error {
	full := filepath.Join(s.repoDir, path)
	if err := os.RemoveAll(full); err != nil {
		s.notify(fmt.Sprintf("delete %s: %v", path, err), "error")
		return err
	}
	return nil
}

// PushArgs returns the `git push` arguments for the current branch. With
// setUpstream the branch is published with -u so subsequent pushes work
// without arguments. The command itself runs in the foreground so
// credential prompts still reach the terminal.
func PushArgs(setUpstream bool) []string {
	if setUpstream {
		return []string{"push", "-u", "origin", "HEAD"}
	}
	return []string{"push"}
}

// DiffArgs returns the `git diff` arguments for an entry, matching what the
/// status list shows: staged entries diff against HEAD, workspace entries
// against the index, untracked files against /dev/null.
func DiffArgs(category models.Category, path string) []string {
	switch category {
	case models.CategoryIndex:
		return []string{"diff", "--cached", "--", path}
	case models.CategoryUntracked:
		return []string{"diff", "--no-index", "--", "/dev/null", path}
	default:
		return []string{"diff", "--", path}
	}
}
