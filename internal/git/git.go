package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Status describes how the journal database relates to a git work tree
type Status struct {
	IsRepo  bool
	Tracked bool // The database file is committed or staged (bad)
	Ignored bool // The database file is covered by .gitignore (good)
}

// IsGitRepo checks if the directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckJournal reports whether the journal database at dbPath sits in a git
// work tree and whether git tracks it.
func CheckJournal(dbPath string) *Status {
	dir, name := filepath.Dir(dbPath), filepath.Base(dbPath)
	if !IsGitRepo(dir) {
		return &Status{}
	}
	return &Status{
		IsRepo:  true,
		Tracked: IsTracked(dir, name),
		Ignored: IsIgnored(dir, name),
	}
}

// Warning returns a user-facing warning, or "" when all is well.
func (s *Status) Warning(dbPath string) string {
	switch {
	case s == nil || !s.IsRepo:
		return ""
	case s.Tracked:
		return "journal database is tracked by git (run: git rm --cached " + filepath.Base(dbPath) + ")"
	case !s.Ignored:
		return "journal database is inside a git repository but not in .gitignore"
	default:
		return ""
	}
}
