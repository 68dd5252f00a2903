package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
)

func TestSessionsCmdTextOutput(t *testing.T) {
	lister := func() []stats.SessionInfo {
		return []stats.SessionInfo{
			{Session: 104, Years: "2025-2026", Default: true},
			{Session: 103, Years: "2023-2024"},
		}
	}

	out, err := execute(t, Dependencies{Sessions: lister}, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "* 104  2025-2026")
	assert.Contains(t, out, "  103  2023-2024")
}

func TestSessionsCmdFallsBackToKnownSessions(t *testing.T) {
	out, err := execute(t, Dependencies{}, "sessions", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"ga_session": 104`)
}

func TestServeCmdRunsInjectedServer(t *testing.T) {
	var ran bool
	serve := func(ctx context.Context) error {
		ran = true
		return nil
	}

	_, err := execute(t, Dependencies{Serve: serve}, "serve")
	require.NoError(t, err)
	assert.True(t, ran)
}

//Personal.AI order the ending
