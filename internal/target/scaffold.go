package target

// Scaffold returns the example document written by `cmforge init`. It is a
// starting point for the user to edit, not a working configuration.
func Scaffold(workspace string) *Document {
	return &Document{
		Workspace:          workspace,
		BuildTargets:       []string{"debug", "release"},
		CurrentBuildTarget: "debug",
		Builds: []BuildTarget{
			{
				Name:    "debug",
				Command: "cmake",
				Args:    []string{"--build", "build/debug"},
			},
			{
				Name:    "release",
				Command: "cmake",
				Args:    []string{"--build", "build/release"},
			},
		},
		Runs: []RunTarget{
			{
				Name:     "debug",
				Command:  "./build/debug/app",
				Args:     []string{},
				PreBuild: true,
			},
			{
				Name:     "release",
				Command:  "./build/release/app",
				Args:     []string{},
				PreBuild: true,
			},
		},
		Configurations: []ConfigureTarget{
			{
				Name:    "debug",
				Command: "cmake",
				Args:    []string{"-B", "build/debug", "-DCMAKE_BUILD_TYPE=Debug", "-DCMAKE_EXPORT_COMPILE_COMMANDS=ON", "-G", "Ninja"},
			},
			{
				Name:    "release",
				Command: "cmake",
				Args:    []string{"-B", "build/release", "-DCMAKE_BUILD_TYPE=Release", "-G", "Ninja"},
			},
		},
	}
}
