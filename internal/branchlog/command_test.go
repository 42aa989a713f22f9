package branchlog_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/branchlog/internal/branchlog"
	"github.com/temirov/branchlog/internal/columns"
	"github.com/temirov/branchlog/internal/execshell"
	"github.com/temirov/branchlog/internal/utils"
)

const (
	testOtherBranchConstant       = "main"
	testCurrentBranchConstant     = "feature"
	testMergeBaseConstant         = "4f2a9c1"
	testOurCommitConstant         = "abc123 fix bug                         - Alice             "
	testTheirCommitConstant       = "fed987 bump version                    - Bob               "
	testSharedCommitConstant      = "4f2a9c1 initial commit                 - Carol             "
	testUsageLineConstant         = "branchlog <branch>"
	testDivergenceMessageConstant = "branch divergence collected"
	testStandardErrorConstant     = "fatal: bad revision 'HEAD..main'"
	testConfigurationFileConstant = "/tmp/branchlog/config.yaml"
	testConfigurationMessageConst = "using configuration"
	testRepositoryFlagConstant    = "--repository"
	testHistoryLimitFlagConstant  = "--history-limit"
	testTailTopBorderFlagConstant = "--tail-top-border"
)

type scriptedGitExecutor struct {
	outputs     []string
	failure     error
	failAtCall  int
	invocations []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, details)
	callNumber := len(executor.invocations)
	if executor.failure != nil && callNumber == executor.failAtCall {
		return execshell.ExecutionResult{}, executor.failure
	}
	if callNumber > len(executor.outputs) {
		return execshell.ExecutionResult{}, nil
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[callNumber-1]}, nil
}

func newScriptedGitExecutor() *scriptedGitExecutor {
	return &scriptedGitExecutor{outputs: []string{
		testOurCommitConstant + "\n",
		testTheirCommitConstant + "\n",
		testCurrentBranchConstant + "\n",
		testMergeBaseConstant + "\n",
		testSharedCommitConstant + "\n",
	}}
}

func buildCommand(testInstance *testing.T, builder *branchlog.CommandBuilder, arguments []string) (*cobra.Command, *bytes.Buffer) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SetContext(context.Background())
	return command, outputBuffer
}

func expectedDrawing(testInstance *testing.T, tailTopBorder bool) string {
	testInstance.Helper()
	layout := columns.DefaultLayout()
	layout.TailTopBorder = tailTopBorder

	var drawingBuffer bytes.Buffer
	require.NoError(testInstance, columns.NewRenderer(layout).Render(&drawingBuffer, columns.Input{
		Ours:            []string{testOurCommitConstant},
		Theirs:          []string{testTheirCommitConstant},
		PreviousCommits: []string{testSharedCommitConstant},
		OurBranch:       testCurrentBranchConstant,
		TheirBranch:     testOtherBranchConstant,
	}))
	return drawingBuffer.String()
}

func TestCommandRejectsWrongArgumentCount(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "no_arguments", arguments: []string{}},
		{name: "two_arguments", arguments: []string{testOtherBranchConstant, "develop"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gitExecutor := newScriptedGitExecutor()
			command, outputBuffer := buildCommand(testInstance, &branchlog.CommandBuilder{GitExecutor: gitExecutor}, testCase.arguments)

			executionError := command.Execute()

			var usageError branchlog.UsageError
			require.True(testInstance, errors.As(executionError, &usageError))
			require.Equal(testInstance, len(testCase.arguments), usageError.ArgumentCount)
			require.Contains(testInstance, outputBuffer.String(), testUsageLineConstant)
			require.Empty(testInstance, gitExecutor.invocations)
		})
	}
}

func TestCommandDrawsDivergence(testInstance *testing.T) {
	repositoryDirectory := testInstance.TempDir()

	testCases := []struct {
		name                  string
		configuration         branchlog.CommandConfiguration
		arguments             []string
		expectedHistoryLimit  string
		expectedRepository    string
		expectedTailTopBorder bool
	}{
		{
			name:                 "defaults",
			configuration:        branchlog.DefaultCommandConfiguration(),
			arguments:            []string{testOtherBranchConstant},
			expectedHistoryLimit: "10",
		},
		{
			name:                  "configuration_values",
			configuration:         branchlog.CommandConfiguration{HistoryLimit: 4, Repository: repositoryDirectory, TailTopBorder: true},
			arguments:             []string{testOtherBranchConstant},
			expectedHistoryLimit:  "4",
			expectedRepository:    repositoryDirectory,
			expectedTailTopBorder: true,
		},
		{
			name:          "flags_override_configuration",
			configuration: branchlog.CommandConfiguration{HistoryLimit: 4, TailTopBorder: true},
			arguments: []string{
				testOtherBranchConstant,
				testHistoryLimitFlagConstant, "3",
				testRepositoryFlagConstant, repositoryDirectory,
				testTailTopBorderFlagConstant + "=false",
			},
			expectedHistoryLimit: "3",
			expectedRepository:   repositoryDirectory,
		},
		{
			name:                  "bare_toggle_before_branch",
			configuration:         branchlog.DefaultCommandConfiguration(),
			arguments:             []string{testTailTopBorderFlagConstant, testOtherBranchConstant},
			expectedHistoryLimit:  "10",
			expectedTailTopBorder: true,
		},
		{
			name:                  "toggle_accepts_yes",
			configuration:         branchlog.DefaultCommandConfiguration(),
			arguments:             []string{testOtherBranchConstant, testTailTopBorderFlagConstant + "=yes"},
			expectedHistoryLimit:  "10",
			expectedTailTopBorder: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gitExecutor := newScriptedGitExecutor()
			configuration := testCase.configuration
			builder := &branchlog.CommandBuilder{
				GitExecutor: gitExecutor,
				ConfigurationProvider: func() branchlog.CommandConfiguration {
					return configuration
				},
			}
			command, outputBuffer := buildCommand(testInstance, builder, testCase.arguments)

			require.NoError(testInstance, command.Execute())
			require.Equal(testInstance, expectedDrawing(testInstance, testCase.expectedTailTopBorder), outputBuffer.String())

			require.Len(testInstance, gitExecutor.invocations, 5)
			for _, invocation := range gitExecutor.invocations {
				require.Equal(testInstance, testCase.expectedRepository, invocation.WorkingDirectory)
			}
			require.Equal(testInstance, testCase.expectedHistoryLimit, gitExecutor.invocations[4].Arguments[2])
		})
	}
}

func TestCommandPrintsNothingWhenGitFails(testInstance *testing.T) {
	gitExecutor := newScriptedGitExecutor()
	gitExecutor.failAtCall = 2
	gitExecutor.failure = execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"log"}}},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorConstant},
	}
	command, outputBuffer := buildCommand(testInstance, &branchlog.CommandBuilder{GitExecutor: gitExecutor}, []string{testOtherBranchConstant})

	executionError := command.Execute()
	require.ErrorContains(testInstance, executionError, testStandardErrorConstant)

	var failedError execshell.CommandFailedError
	require.True(testInstance, errors.As(executionError, &failedError))
	require.Empty(testInstance, outputBuffer.String())
	require.Len(testInstance, gitExecutor.invocations, 2)
}

func TestCommandRejectsMissingRepository(testInstance *testing.T) {
	gitExecutor := newScriptedGitExecutor()
	missingRepository := filepath.Join(testInstance.TempDir(), "missing")
	command, outputBuffer := buildCommand(testInstance, &branchlog.CommandBuilder{GitExecutor: gitExecutor}, []string{testOtherBranchConstant, testRepositoryFlagConstant, missingRepository})

	executionError := command.Execute()
	require.ErrorContains(testInstance, executionError, "unable to locate repository")
	require.Empty(testInstance, outputBuffer.String())
	require.Empty(testInstance, gitExecutor.invocations)
}

func TestCommandLogsDivergenceSummary(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	logger := zap.New(observerCore)

	gitExecutor := newScriptedGitExecutor()
	builder := &branchlog.CommandBuilder{
		GitExecutor: gitExecutor,
		LoggerProvider: func() *zap.Logger {
			return logger
		},
	}
	command, _ := buildCommand(testInstance, builder, []string{testOtherBranchConstant})
	command.SetContext(utils.NewCommandContextAccessor().WithLoadedConfiguration(context.Background(), utils.LoadedConfiguration{ConfigFileUsed: testConfigurationFileConstant}))

	require.NoError(testInstance, command.Execute())

	configurationEntries := observedLogs.FilterMessage(testConfigurationMessageConst).All()
	require.Len(testInstance, configurationEntries, 1)
	require.Equal(testInstance, testConfigurationFileConstant, configurationEntries[0].ContextMap()["config_file"])

	divergenceEntries := observedLogs.FilterMessage(testDivergenceMessageConstant).All()
	require.Len(testInstance, divergenceEntries, 1)
	fields := divergenceEntries[0].ContextMap()
	require.Equal(testInstance, testCurrentBranchConstant, fields["our_branch"])
	require.Equal(testInstance, testOtherBranchConstant, fields["their_branch"])
	require.Equal(testInstance, testMergeBaseConstant, fields["merge_base"])
	require.EqualValues(testInstance, 1, fields["our_commit_count"])
	require.EqualValues(testInstance, 1, fields["shared_commit_count"])
}

func TestUsageErrorMessage(testInstance *testing.T) {
	require.Equal(testInstance, "branchlog expects exactly 1 branch name, received 3 arguments", branchlog.UsageError{ArgumentCount: 3}.Error())
}
