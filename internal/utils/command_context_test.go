package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchlog/internal/utils"
)

func TestCommandContextAccessorLoadedConfiguration(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, available := accessor.LoadedConfiguration(context.Background())
	require.False(testInstance, available)

	loadedConfiguration := utils.LoadedConfiguration{ConfigFileUsed: "/tmp/branchlog/config.yaml"}
	executionContext := accessor.WithLoadedConfiguration(context.Background(), loadedConfiguration)

	retrievedConfiguration, available := accessor.LoadedConfiguration(executionContext)
	require.True(testInstance, available)
	require.Equal(testInstance, loadedConfiguration, retrievedConfiguration)
}
