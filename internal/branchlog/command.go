package branchlog

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchlog/internal/columns"
	"github.com/temirov/branchlog/internal/commitlog"
	"github.com/temirov/branchlog/internal/execshell"
	"github.com/temirov/branchlog/internal/ui"
	"github.com/temirov/branchlog/internal/utils"
	flagutils "github.com/temirov/branchlog/internal/utils/flags"
	pathutils "github.com/temirov/branchlog/internal/utils/path"
)

const (
	commandUseConstant                    = "branchlog <branch>"
	commandShortDescriptionConstant       = "Draw the commits separating the current branch from another branch"
	commandLongDescriptionConstant        = "branchlog prints the commits unique to the current branch and to the given branch in two boxes side by side, above the history they share from their merge base."
	expectedArgumentCountConstant         = 1
	usageErrorTemplateConstant            = "branchlog expects exactly %d branch name, received %d arguments"
	repositoryResolutionTemplateConstant  = "unable to locate repository: %w"
	commandExecutionErrorTemplateConstant = "branchlog failed: %w"
	flagHistoryLimitNameConstant          = "history-limit"
	flagHistoryLimitDescriptionConstant   = "Number of shared commits shown below the merge base"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "Repository directory to inspect instead of the working directory"
	flagTailTopBorderNameConstant         = "tail-top-border"
	flagTailTopBorderDescriptionConstant  = "Keep the shared history top border and join the branch boxes to it"
	divergenceFetchedMessageConstant      = "branch divergence collected"
	configurationFileMessageConstant      = "using configuration"
	logFieldConfigurationFileConstant     = "config_file"
	logFieldRepositoryConstant            = "repository"
	logFieldOurBranchConstant             = "our_branch"
	logFieldTheirBranchConstant           = "their_branch"
	logFieldMergeBaseConstant             = "merge_base"
	logFieldOurCommitCountConstant        = "our_commit_count"
	logFieldTheirCommitCountConstant      = "their_commit_count"
	logFieldSharedCommitCountConstant     = "shared_commit_count"
)

// UsageError reports a wrong number of positional arguments.
type UsageError struct {
	ArgumentCount int
}

// Error describes the expected and received argument counts.
func (usageError UsageError) Error() string {
	return fmt.Sprintf(usageErrorTemplateConstant, expectedArgumentCountConstant, usageError.ArgumentCount)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded command configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console-format logging is active.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the branchlog Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	GitExecutor                  commitlog.GitExecutor
	PathResolver                 *pathutils.RepositoryPathResolver
}

// Build constructs the branchlog command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Int(flagHistoryLimitNameConstant, defaults.HistoryLimit, flagHistoryLimitDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaults.Repository, flagRepositoryDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), flagTailTopBorderNameConstant, defaults.TailTopBorder, flagTailTopBorderDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != expectedArgumentCountConstant {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return UsageError{ArgumentCount: len(arguments)}
	}

	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()
	if loadedConfiguration, available := utils.NewCommandContextAccessor().LoadedConfiguration(command.Context()); available {
		logger.Debug(configurationFileMessageConstant, zap.String(logFieldConfigurationFileConstant, loadedConfiguration.ConfigFileUsed))
	}

	repositoryPath, resolveError := builder.resolvePathResolver().Resolve(configuration.Repository)
	if resolveError != nil {
		return fmt.Errorf(repositoryResolutionTemplateConstant, resolveError)
	}

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := commitlog.NewService(commitlog.ServiceDependencies{GitExecutor: gitExecutor})
	if serviceError != nil {
		return serviceError
	}

	divergence, fetchError := service.FetchDivergence(command.Context(), commitlog.Options{
		RepositoryPath: repositoryPath,
		OtherBranch:    arguments[0],
		HistoryLimit:   configuration.HistoryLimit,
	})
	if fetchError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, fetchError)
	}

	logger.Debug(
		divergenceFetchedMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldOurBranchConstant, divergence.OurBranch),
		zap.String(logFieldTheirBranchConstant, divergence.TheirBranch),
		zap.String(logFieldMergeBaseConstant, divergence.MergeBase),
		zap.Int(logFieldOurCommitCountConstant, len(divergence.Ours)),
		zap.Int(logFieldTheirCommitCountConstant, len(divergence.Theirs)),
		zap.Int(logFieldSharedCommitCountConstant, len(divergence.PreviousCommits)),
	)

	layout := columns.DefaultLayout()
	layout.TailTopBorder = configuration.TailTopBorder

	renderError := columns.NewRenderer(layout).Render(utils.NewFlushingWriter(command.OutOrStdout()), columns.Input{
		Ours:            divergence.Ours,
		Theirs:          divergence.Theirs,
		PreviousCommits: divergence.PreviousCommits,
		OurBranch:       divergence.OurBranch,
		TheirBranch:     divergence.TheirBranch,
	})
	if renderError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, renderError)
	}

	return nil
}

// resolveConfiguration applies explicitly set flags over the provided configuration.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(flagHistoryLimitNameConstant) {
		configuration.HistoryLimit, _ = flagSet.GetInt(flagHistoryLimitNameConstant)
	}
	if flagSet.Changed(flagRepositoryNameConstant) {
		configuration.Repository, _ = flagSet.GetString(flagRepositoryNameConstant)
	}
	if flagSet.Changed(flagTailTopBorderNameConstant) {
		configuration.TailTopBorder, _ = flagSet.GetBool(flagTailTopBorderNameConstant)
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolvePathResolver() *pathutils.RepositoryPathResolver {
	if builder.PathResolver != nil {
		return builder.PathResolver
	}
	return pathutils.NewRepositoryPathResolver()
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (commitlog.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}

	var eventObserver execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObserver = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObserver)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
