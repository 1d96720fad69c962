package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/tabletopsim/engine/internal/config"
	"github.com/tabletopsim/engine/internal/data"
	"github.com/tabletopsim/engine/internal/game"
	"github.com/tabletopsim/engine/internal/worldtime"
)

func TestScriptFeed(t *testing.T) {
	s := script{
		{0, game.Proposal{Name: "a"}},
		{1, game.Proposal{Name: "b"}},
		{1, game.Proposal{Name: "c"}},
	}
	in := make(chan game.Proposal, 1)
	s.feed(1, in, zaptest.NewLogger(t))
	require.Len(t, in, 1)
	assert.Equal(t, "b", (<-in).Name)

	s.feed(5, in, zaptest.NewLogger(t))
	assert.Empty(t, in)
}

func TestDemoScript(t *testing.T) {
	r, err := data.ParseRoster([]byte("actors:\n  - id: 4\n    position: {x: 1, y: 1}\n"))
	require.NoError(t, err)

	s := demoScript(r, game.Attacker{}, worldtime.New())
	require.NotEmpty(t, s)
	assert.Equal(t, "walk", s[0].proposal.Name)
	assert.Len(t, s[0].proposal.Steps, 2)

	empty, err := data.ParseRoster([]byte("actors: []\n"))
	require.NoError(t, err)
	assert.Nil(t, demoScript(empty, game.Attacker{}, worldtime.New()))
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = newLogger(config.LoggingConfig{Level: "bogus", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
