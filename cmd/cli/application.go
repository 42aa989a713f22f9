package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/branchlog/internal/branchlog"
	"github.com/temirov/branchlog/internal/utils"
	flagutils "github.com/temirov/branchlog/internal/utils/flags"
)

const (
	applicationNameConstant                 = "branchlog"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format; console prints human-readable sentences."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	branchlogConfigurationKeyConstant       = "branchlog"
	environmentPrefixConstant               = "BRANCHLOG"
	configurationSearchPathEnvironmentName  = environmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	flagOverrideErrorTemplateConstant       = "invalid --%s value: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandBuildErrorTemplateConstant   = "unable to build command: %w"
	versionTemplateConstant                 = "branchlog version: {{.Version}}\n"
	developmentVersionConstant              = "dev"
	unversionedBuildMarkerConstant          = "(devel)"
	defaultLogLevelConstant                 = utils.LogLevelWarn
	defaultLogFormatConstant                = utils.LogFormatConsole
)

var (
	supportedLogLevels  = []utils.LogLevel{utils.LogLevelDebug, utils.LogLevelInfo, utils.LogLevelWarn, utils.LogLevelError}
	supportedLogFormats = []utils.LogFormat{utils.LogFormatStructured, utils.LogFormatConsole}
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Branchlog branchlog.CommandConfiguration `mapstructure:"branchlog"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  utils.LogLevel  `mapstructure:"log_level"`
	LogFormat utils.LogFormat `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	commandBuilder         *branchlog.CommandBuilder
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()

	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
			ConfigurationName:         configurationNameConstant,
			ConfigurationType:         configurationTypeConstant,
			EnvironmentPrefix:         environmentPrefixConstant,
			SearchPaths:               configurationSearchPaths(),
			EmbeddedConfiguration:     embeddedConfiguration,
			EmbeddedConfigurationType: embeddedConfigurationType,
		}),
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	application.commandBuilder = &branchlog.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() branchlog.CommandConfiguration {
			return application.configuration.Branchlog
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}

	rootCommand, buildError := application.commandBuilder.Build()
	if buildError != nil {
		return nil, fmt.Errorf(rootCommandBuildErrorTemplateConstant, buildError)
	}

	rootCommand.Version = resolveBuildVersion()
	rootCommand.SetVersionTemplate(versionTemplateConstant)
	rootCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}
	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flagutils.ChoiceUsage(defaultLogLevelConstant, supportedLogLevels, logLevelFlagUsageConstant))
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.ChoiceUsage(defaultLogFormatConstant, supportedLogFormats, logFormatFlagUsageConstant))

	application.rootCommand = rootCommand

	return application, nil
}

// Execute runs the root command and flushes the logger afterwards.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.syncLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes it.
func Execute() error {
	application, creationError := NewApplication()
	if creationError != nil {
		return creationError
	}
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(defaultLogLevelConstant),
		commonLogFormatConfigKeyConstant: string(defaultLogFormatConstant),
	}
	for configurationKey, configurationValue := range branchlog.DefaultConfigurationValues(branchlogConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		if levelError := application.configuration.Common.LogLevel.UnmarshalText([]byte(application.logLevelFlagValue)); levelError != nil {
			return fmt.Errorf(flagOverrideErrorTemplateConstant, logLevelFlagNameConstant, levelError)
		}
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		if formatError := application.configuration.Common.LogFormat.UnmarshalText([]byte(application.logFormatFlagValue)); formatError != nil {
			return fmt.Errorf(flagOverrideErrorTemplateConstant, logFormatFlagNameConstant, formatError)
		}
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(application.configuration.Common.LogLevel, application.configuration.Common.LogFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(application.configuration.Common.LogLevel)),
		zap.String(configurationLogFormatFieldConstant, string(application.configuration.Common.LogFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		command.SetContext(application.commandContextAccessor.WithLoadedConfiguration(command.Context(), application.configurationMetadata))
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return application.configuration.Common.LogFormat.HumanReadable()
}

func (application *Application) syncLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// configurationSearchPaths honors BRANCHLOG_CONFIG_SEARCH_PATH, a list of
// directories separated like PATH, before falling back to the default locations.
func configurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentName))
	if len(overrideValue) == 0 {
		return utils.DefaultConfigurationSearchPaths(applicationNameConstant)
	}

	searchPaths := make([]string, 0)
	for _, searchPath := range filepath.SplitList(overrideValue) {
		if trimmedSearchPath := strings.TrimSpace(searchPath); len(trimmedSearchPath) > 0 {
			searchPaths = append(searchPaths, trimmedSearchPath)
		}
	}
	return searchPaths
}

func resolveBuildVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return developmentVersionConstant
	}
	mainVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(mainVersion) == 0 || mainVersion == unversionedBuildMarkerConstant {
		return developmentVersionConstant
	}
	return mainVersion
}
