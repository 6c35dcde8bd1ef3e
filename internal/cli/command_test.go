package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTicketsCommand(t *testing.T) {
	out, err := run(t, "tickets")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[1], "Login page not loading properly")
	assert.Contains(t, lines[3], "Unassigned")

	out, err = run(t, "tickets", "--status", "closed")
	require.NoError(t, err)
	assert.Contains(t, out, "Database connection timeout")
	assert.NotContains(t, out, "Login page")

	out, err = run(t, "tickets", "--search", "nothing matches this")
	require.NoError(t, err)
	assert.Equal(t, "No tickets found\n", out)
}

func TestTicketsCommandRejectsUnknownStatus(t *testing.T) {
	_, err := run(t, "tickets", "--status", "resolved")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestStatsCommand(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Regexp(t, `Total Tickets\s+4`, out)
	assert.Regexp(t, `Open\s+2`, out)
	assert.Regexp(t, `In Progress\s+1`, out)
	assert.Regexp(t, `Closed\s+1`, out)
}

func TestRewardsCommand(t *testing.T) {
	out, err := run(t, "rewards")
	require.NoError(t, err)
	assert.Regexp(t, `Points\s+2450`, out)
	assert.Contains(t, out, "5 (90%, 550 to next)")
	assert.Regexp(t, `Tech Conference Ticket\s+3000\s+unavailable`, out)
	assert.Regexp(t, `Home Office Setup\s+2500\s+need more points`, out)
}
