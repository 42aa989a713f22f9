package commitlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/branchlog/internal/execshell"
)

// CommitFormat renders each commit as a short hash, a 30-cell subject, and an 18-cell author.
const CommitFormat = "%h %<(30,trunc)%s - %<(18,trunc)%an"

// CurrentReference names the checked-out commit.
const CurrentReference = "HEAD"

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	otherBranchRequiredMessageConstant          = "other branch name must be provided"
	historyLimitInvalidMessageConstant          = "history limit must be positive"
	gitLogSubcommandConstant                    = "log"
	gitMergeBaseSubcommandConstant              = "merge-base"
	gitBranchSubcommandConstant                 = "branch"
	gitShowCurrentFlagConstant                  = "--show-current"
	gitMaxCountFlagConstant                     = "-n"
	gitPrettyFormatFlagPrefixConstant           = "--pretty=format:"
	gitRangeTemplateConstant                    = "%s..%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	listCommitsOperationTemplateConstant        = "list commits on %s missing from %s"
	mergeBaseOperationTemplateConstant          = "find merge base of %s and %s"
	currentBranchOperationConstant              = "identify current branch"
	recentCommitsOperationTemplateConstant      = "read %d commits of history from %s"
	operationFailureTemplateConstant            = "failed to %s: %w"
	mergeBaseMissingTemplateConstant            = "%s and %s have no common ancestor"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrOtherBranchRequired indicates the branch to compare against was empty.
var ErrOtherBranchRequired = errors.New(otherBranchRequiredMessageConstant)

// ErrHistoryLimitInvalid indicates a non-positive shared-history length.
var ErrHistoryLimitInvalid = errors.New(historyLimitInvalidMessageConstant)

// GitExecutor exposes the git invocation used by Service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies enumerates collaborators required by Service.
type ServiceDependencies struct {
	GitExecutor GitExecutor
}

// Options configures a divergence lookup.
type Options struct {
	// RepositoryPath is the git working directory; empty means the process working directory.
	RepositoryPath string
	OtherBranch    string
	HistoryLimit   int
}

// Divergence holds the commit lines on each side of a branch split and the shared history below it.
type Divergence struct {
	Ours            []string
	Theirs          []string
	PreviousCommits []string
	OurBranch       string
	TheirBranch     string
	MergeBase       string
}

// Service reads commit lines from a git repository.
type Service struct {
	executor GitExecutor
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor}, nil
}

// FetchDivergence lists commits unique to HEAD, commits unique to the other
// branch, and the most recent shared commits starting at their merge base.
func (service *Service) FetchDivergence(executionContext context.Context, options Options) (Divergence, error) {
	otherBranch := strings.TrimSpace(options.OtherBranch)
	if len(otherBranch) == 0 {
		return Divergence{}, ErrOtherBranchRequired
	}
	if options.HistoryLimit <= 0 {
		return Divergence{}, ErrHistoryLimitInvalid
	}
	repositoryPath := strings.TrimSpace(options.RepositoryPath)

	ourCommits, ourCommitsError := service.ListCommits(executionContext, repositoryPath, CurrentReference, otherBranch)
	if ourCommitsError != nil {
		return Divergence{}, ourCommitsError
	}

	theirCommits, theirCommitsError := service.ListCommits(executionContext, repositoryPath, otherBranch, CurrentReference)
	if theirCommitsError != nil {
		return Divergence{}, theirCommitsError
	}

	ourBranch, ourBranchError := service.CurrentBranch(executionContext, repositoryPath)
	if ourBranchError != nil {
		return Divergence{}, ourBranchError
	}

	mergeBase, mergeBaseError := service.MergeBase(executionContext, repositoryPath, CurrentReference, otherBranch)
	if mergeBaseError != nil {
		return Divergence{}, mergeBaseError
	}

	previousCommits, previousCommitsError := service.ListRecentCommits(executionContext, repositoryPath, mergeBase, options.HistoryLimit)
	if previousCommitsError != nil {
		return Divergence{}, previousCommitsError
	}

	return Divergence{
		Ours:            ourCommits,
		Theirs:          theirCommits,
		PreviousCommits: previousCommits,
		OurBranch:       ourBranch,
		TheirBranch:     otherBranch,
		MergeBase:       mergeBase,
	}, nil
}

// ListCommits returns commits reachable from included but not from excluded, newest first.
func (service *Service) ListCommits(executionContext context.Context, repositoryPath string, included string, excluded string) ([]string, error) {
	operation := fmt.Sprintf(listCommitsOperationTemplateConstant, included, excluded)
	output, executionError := service.executeGit(executionContext, repositoryPath, gitLogSubcommandConstant, prettyFormatArgument(), fmt.Sprintf(gitRangeTemplateConstant, excluded, included))
	if executionError != nil {
		return nil, fmt.Errorf(operationFailureTemplateConstant, operation, executionError)
	}
	return splitOutputLines(operation, output)
}

// MergeBase returns the best common ancestor of the two references.
func (service *Service) MergeBase(executionContext context.Context, repositoryPath string, leftReference string, rightReference string) (string, error) {
	operation := fmt.Sprintf(mergeBaseOperationTemplateConstant, leftReference, rightReference)
	output, executionError := service.executeGit(executionContext, repositoryPath, gitMergeBaseSubcommandConstant, leftReference, rightReference)
	if executionError != nil {
		return "", fmt.Errorf(operationFailureTemplateConstant, operation, executionError)
	}

	mergeBase, decodeError := firstOutputLine(operation, output)
	if decodeError != nil {
		return "", decodeError
	}
	if len(mergeBase) == 0 {
		return "", fmt.Errorf(operationFailureTemplateConstant, operation, fmt.Errorf(mergeBaseMissingTemplateConstant, leftReference, rightReference))
	}
	return mergeBase, nil
}

// CurrentBranch returns the checked-out branch name, or HEAD when detached.
func (service *Service) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	output, executionError := service.executeGit(executionContext, repositoryPath, gitBranchSubcommandConstant, gitShowCurrentFlagConstant)
	if executionError != nil {
		return "", fmt.Errorf(operationFailureTemplateConstant, currentBranchOperationConstant, executionError)
	}

	branchName, decodeError := firstOutputLine(currentBranchOperationConstant, output)
	if decodeError != nil {
		return "", decodeError
	}
	if len(branchName) == 0 {
		return CurrentReference, nil
	}
	return branchName, nil
}

// ListRecentCommits returns up to limit commits reachable from the commit, newest first.
func (service *Service) ListRecentCommits(executionContext context.Context, repositoryPath string, commit string, limit int) ([]string, error) {
	operation := fmt.Sprintf(recentCommitsOperationTemplateConstant, limit, commit)
	output, executionError := service.executeGit(executionContext, repositoryPath, gitLogSubcommandConstant, gitMaxCountFlagConstant, strconv.Itoa(limit), prettyFormatArgument(), commit)
	if executionError != nil {
		return nil, fmt.Errorf(operationFailureTemplateConstant, operation, executionError)
	}
	return splitOutputLines(operation, output)
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	executionResult, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func prettyFormatArgument() string {
	return gitPrettyFormatFlagPrefixConstant + CommitFormat
}
