// Package deps checks that the executables referenced by a target document
// are actually available, backing `cmforge doctor`.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cmforge/internal/target"
)

// Requirement defines one external command the document relies on.
type Requirement struct {
	Command string
}

// Status reports the availability of a required command.
type Status struct {
	Command   string
	Available bool
	Detail    string
}

// FromDocument derives one requirement per distinct executable referenced by
// the document's catalogs.
func FromDocument(doc *target.Document) []Requirement {
	commands := doc.Commands()
	requirements := make([]Requirement, 0, len(commands))
	for _, command := range commands {
		requirements = append(requirements, Requirement{Command: command})
	}
	return requirements
}

// Check evaluates the requirements against the workspace. Commands containing
// a path separator are resolved relative to the workspace, matching how the
// runner executes them; bare names are looked up on PATH.
func Check(workspace string, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{Command: command}
		switch {
		case command == "":
			status.Detail = "command not configured"
		case strings.ContainsRune(command, os.PathSeparator):
			resolved := command
			if !filepath.IsAbs(resolved) {
				resolved = filepath.Join(workspace, resolved)
			}
			if info, err := os.Stat(resolved); err != nil {
				status.Detail = fmt.Sprintf("%s not found", resolved)
			} else if info.IsDir() || info.Mode()&0o111 == 0 {
				status.Detail = fmt.Sprintf("%s is not executable", resolved)
			} else {
				status.Available = true
			}
		default:
			if _, err := exec.LookPath(command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found on PATH", command)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}
