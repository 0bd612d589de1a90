package cli

import (
	"bytes"
	"context"
	"testing"

	"contextAgent/internal/config"
	"contextAgent/internal/logger"
	"contextAgent/internal/packer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCLI(out *bytes.Buffer) *CLI {
	cfg := &config.Cfg{
		Context: config.Context{
			MaxChars:           4000,
			Policy:             packer.PolicyPriority,
			DigestMaxChars:     600,
			TranscriptMaxChars: 1200,
			SanitizeRetrieval:  true,
		},
	}
	return New(cfg, logger.Nop(), nil, nil, out)
}

func TestRootPrintsHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, testCLI(&out).Execute(context.Background(), nil))

	s := out.String()
	assert.Contains(t, s, "contextAgent v0.1.0")
	for _, name := range []string{"pack", "digest", "transcript", "bundle", "contract", "smoke", "ask", "redteam", "inspect", "logs", "serve"} {
		assert.Contains(t, s, name)
	}
}

func TestPackCommandFlags(t *testing.T) {
	var out bytes.Buffer
	err := testCLI(&out).Execute(context.Background(), []string{"pack", "--policy", "priority", "--max-chars", "250"})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "priority-first")
	assert.NotContains(t, s, "recency-first")
	assert.Contains(t, s, "(budget=250)")
}

func TestPackDefaultBudget(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, testCLI(&out).Execute(context.Background(), []string{"pack"}))
	assert.Contains(t, out.String(), "(budget=300)")
}

func TestContractOfflineCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, testCLI(&out).Execute(context.Background(), []string{"contract"}))
	assert.Contains(t, out.String(), "CONTRACT VALIDATION PASSED")
}

func TestCommandsNeedingCollaborators(t *testing.T) {
	var out bytes.Buffer
	c := testCLI(&out)

	assert.Error(t, c.Execute(context.Background(), []string{"smoke"}))
	assert.Error(t, c.Execute(context.Background(), []string{"logs"}))
	assert.Error(t, c.Execute(context.Background(), []string{"ask"}))
}

func TestRedteamCommandRunsBundledCases(t *testing.T) {
	var out bytes.Buffer
	err := testCLI(&out).Execute(context.Background(), []string{"redteam", "--cases", "../../redteam/cases"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Passed:")
}
