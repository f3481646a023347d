package types

// GlobalConfig represents the global configuration file (~/.config/organizer/config.yml)
type GlobalConfig struct {
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
	Progress *bool  `yaml:"progress,omitempty"` // nil means enabled on a terminal
	Prompt   string `yaml:"prompt"`             // auto, dialog, terminal or console
}

// ProgressEnabled resolves the optional progress toggle.
func (g *GlobalConfig) ProgressEnabled() bool {
	if g == nil || g.Progress == nil {
		return true
	}
	return *g.Progress
}
