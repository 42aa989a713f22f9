package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                   = "~"
	tildeForwardSlashPrefixConstant       = "~/"
	repositoryPathMissingTemplateConstant = "repository path %s is not accessible: %w"
	repositoryPathNotDirectoryTemplate    = "repository path %s is not a directory"
	absolutePathErrorTemplateConstant     = "unable to resolve repository path %s: %w"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RepositoryPathNotDirectoryError reports a configured repository path that names a file.
type RepositoryPathNotDirectoryError struct {
	Path string
}

// Error describes the offending path.
func (pathError RepositoryPathNotDirectoryError) Error() string {
	return fmt.Sprintf(repositoryPathNotDirectoryTemplate, pathError.Path)
}

// RepositoryPathResolver turns a configured repository location into an absolute directory path.
type RepositoryPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewRepositoryPathResolver constructs a resolver using the operating system home lookup.
func NewRepositoryPathResolver() *RepositoryPathResolver {
	return NewRepositoryPathResolverWithProvider(os.UserHomeDir)
}

// NewRepositoryPathResolverWithProvider constructs a resolver with a custom home lookup.
func NewRepositoryPathResolverWithProvider(provider HomeDirectoryProvider) *RepositoryPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &RepositoryPathResolver{homeDirectoryProvider: provider}
}

// Resolve expands a leading ~, makes the path absolute, and verifies it is a directory.
// An empty candidate resolves to an empty path, meaning the process working directory.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", nil
	}

	absolutePath, absoluteError := filepath.Abs(resolver.ExpandHome(trimmedPath))
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, trimmedPath, absoluteError)
	}

	pathInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		return "", fmt.Errorf(repositoryPathMissingTemplateConstant, absolutePath, statError)
	}
	if !pathInformation.IsDir() {
		return "", RepositoryPathNotDirectoryError{Path: absolutePath}
	}

	return absolutePath, nil
}

// ExpandHome resolves leading tilde prefixes to the user's home directory.
// Paths such as ~other are returned unchanged.
func (resolver *RepositoryPathResolver) ExpandHome(candidatePath string) string {
	if resolver == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

func (resolver *RepositoryPathResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
