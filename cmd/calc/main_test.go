package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/w40k-wounds/internal/engine"
	"github.com/pefman/w40k-wounds/internal/models"
	"github.com/pefman/w40k-wounds/internal/server"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		profile models.Profile
		mods    engine.ModifierSet
	}{
		{
			name:    "defaults",
			profile: models.Profile{Attacks: 1, Hit: 3, Wound: 3, Save: 3},
		},
		{
			name:    "reroll modes",
			args:    []string{"-reroll-hits=all", "-reroll-wounds=ones"},
			profile: models.Profile{Attacks: 1, Hit: 3, Wound: 3, Save: 3},
			mods:    engine.ModifierSet{HitReroll: engine.RerollAll, WoundReroll: engine.RerollOnes},
		},
		{
			name:    "every flag",
			args:    []string{"-attacks=10", "-hit=2", "-wound=4", "-save=5", "-sustained", "-lethal", "-devastating", "-improved-ap"},
			profile: models.Profile{Attacks: 10, Hit: 2, Wound: 4, Save: 5},
			mods:    engine.ModifierSet{SustainedHits: true, LethalHits: true, DevastatingWounds: true, ImprovedAP: true},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts, err := parseArgs(c.args, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, c.profile, opts.profile)
			assert.Equal(t, c.mods, opts.mods)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-hit=7"},
		{"-save=0"},
		{"-attacks=-1"},
		{"-reroll-hits=some"},
		{"-reroll-wounds=twice"},
		{"-nope"},
	} {
		_, err := parseArgs(args, io.Discard)
		assert.Error(t, err, "%v", args)
	}
}

func TestRun_Local(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-attacks=10", "-wound=4", "-save=5", "-lethal"}, &out))
	assert.Equal(t, "Expected Wounds: 2.59\n", out.String())
}

func TestRun_Breakdown(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-breakdown"}, &out))
	assert.Contains(t, out.String(), "hit probability:")
	assert.Contains(t, out.String(), "Expected Wounds: 0.15\n")
}

func TestRun_Server(t *testing.T) {
	srv := httptest.NewServer(server.New(nil, nil, server.BuildInfo{}).Handler())
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-server", srv.URL, "-attacks=10", "-wound=4", "-save=5", "-lethal"}, &out))
	assert.Equal(t, "Expected Wounds: 2.59\n", out.String())
}

func TestRun_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(server.New(nil, nil, server.BuildInfo{}).Handler())
	url := srv.URL
	srv.Close()

	err := run([]string{"-server", url}, io.Discard)
	assert.ErrorContains(t, err, "remote calculation")
}
