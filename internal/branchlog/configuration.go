package branchlog

import "strings"

const (
	defaultHistoryLimitConstant       = 10
	historyLimitConfigurationKey      = "history_limit"
	repositoryConfigurationKey        = "repository"
	tailTopBorderConfigurationKey     = "tail_top_border"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the branchlog command.
type CommandConfiguration struct {
	HistoryLimit  int    `mapstructure:"history_limit"`
	Repository    string `mapstructure:"repository"`
	TailTopBorder bool   `mapstructure:"tail_top_border"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		HistoryLimit:  defaultHistoryLimitConstant,
		Repository:    "",
		TailTopBorder: false,
	}
}

// DefaultConfigurationValues returns the defaults keyed for Viper under the provided section.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifyKey(sectionKey, historyLimitConfigurationKey):  defaults.HistoryLimit,
		qualifyKey(sectionKey, repositoryConfigurationKey):    defaults.Repository,
		qualifyKey(sectionKey, tailTopBorderConfigurationKey): defaults.TailTopBorder,
	}
}

// Sanitize trims the repository path and restores the default history limit when it is not positive.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	if sanitized.HistoryLimit <= 0 {
		sanitized.HistoryLimit = defaultHistoryLimitConstant
	}
	return sanitized
}

func qualifyKey(sectionKey string, key string) string {
	trimmedSectionKey := strings.TrimSpace(sectionKey)
	if len(trimmedSectionKey) == 0 {
		return key
	}
	return trimmedSectionKey + configurationKeySeparatorConstant + key
}
