package target

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigureTarget describes the external command invoked by `cmforge configure`.
type ConfigureTarget struct {
	Name    string   `json:"name"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// BuildTarget describes the external command invoked by `cmforge build`.
type BuildTarget struct {
	Name    string   `json:"name"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// RunTarget describes the external command invoked by `cmforge run`. When
// PreBuild is set the build entry of the same name runs first.
type RunTarget struct {
	Name     string   `json:"name"`
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	PreBuild bool     `json:"pre_build"`
}

// Document is the whole persisted configuration for one workspace. The three
// catalogs are independent; they share only the selected target name.
type Document struct {
	Workspace          string            `json:"workspace"`
	BuildTargets       []string          `json:"build_targets"`
	CurrentBuildTarget string            `json:"current_build_target"`
	Builds             []BuildTarget     `json:"builds"`
	Runs               []RunTarget       `json:"runs"`
	Configurations     []ConfigureTarget `json:"configurations"`
}

// FindBuild returns the first build entry with the given name. Duplicate
// names are legal; the first match wins.
func (d *Document) FindBuild(name string) (BuildTarget, bool) {
	for _, entry := range d.Builds {
		if entry.Name == name {
			return entry, true
		}
	}
	return BuildTarget{}, false
}

// FindRun returns the first run entry with the given name.
func (d *Document) FindRun(name string) (RunTarget, bool) {
	for _, entry := range d.Runs {
		if entry.Name == name {
			return entry, true
		}
	}
	return RunTarget{}, false
}

// FindConfigure returns the first configure entry with the given name.
func (d *Document) FindConfigure(name string) (ConfigureTarget, bool) {
	for _, entry := range d.Configurations {
		if entry.Name == name {
			return entry, true
		}
	}
	return ConfigureTarget{}, false
}

// Select points CurrentBuildTarget at the build target with the given
// zero-based index. Out-of-range indices leave the document unchanged.
func (d *Document) Select(index int) error {
	if index < 0 || index >= len(d.BuildTargets) {
		return fmt.Errorf("select target: index %d out of range (document lists %d build targets)", index, len(d.BuildTargets))
	}
	d.CurrentBuildTarget = d.BuildTargets[index]
	return nil
}

func (d *Document) validate() error {
	if strings.TrimSpace(d.Workspace) == "" {
		return errors.New("document missing required field \"workspace\"")
	}
	if strings.TrimSpace(d.CurrentBuildTarget) == "" {
		return errors.New("document missing required field \"current_build_target\"")
	}
	for i, entry := range d.Builds {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("builds[%d] missing required field \"name\"", i)
		}
	}
	for i, entry := range d.Runs {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("runs[%d] missing required field \"name\"", i)
		}
	}
	for i, entry := range d.Configurations {
		if strings.TrimSpace(entry.Name) == "" {
			return fmt.Errorf("configurations[%d] missing required field \"name\"", i)
		}
	}
	return nil
}

// Commands returns every distinct executable referenced by the document, in
// first-appearance order. Used by the doctor command.
func (d *Document) Commands() []string {
	seen := make(map[string]struct{})
	var commands []string
	add := func(command string) {
		command = strings.TrimSpace(command)
		if command == "" {
			return
		}
		if _, ok := seen[command]; ok {
			return
		}
		seen[command] = struct{}{}
		commands = append(commands, command)
	}
	for _, entry := range d.Configurations {
		add(entry.Command)
	}
	for _, entry := range d.Builds {
		add(entry.Command)
	}
	for _, entry := range d.Runs {
		add(entry.Command)
	}
	return commands
}
