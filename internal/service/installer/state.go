package installer

// InstallState collects the wizard answers, keyed by env var name. Keys
// starting with an underscore only steer later steps and are never saved.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

// is matches steps to an earlier answer.
func is(key, value string) func(*InstallState) bool {
	return func(s *InstallState) bool { return s.EnvVars[key] == value }
}

func isNot(key, value string) func(*InstallState) bool {
	return func(s *InstallState) bool { return s.EnvVars[key] != value }
}

func has(key string) func(*InstallState) bool {
	return func(s *InstallState) bool { return s.EnvVars[key] != "" }
}
