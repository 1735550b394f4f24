package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/surround/pkg/config"
)

func TestNameValidator(t *testing.T) {
	v := nameValidator{}

	assert.Error(t, v.Validate(&demoState{Name: "   "}, nil))
	assert.NoError(t, v.Validate(&demoState{Name: "Scott"}, nil))
}

func TestGreeterEstimate(t *testing.T) {
	cfg := config.New()
	cfg.Set("greeter.suffix", "the Brave")

	s := &demoState{Name: "Scott"}
	require.NoError(t, greeter{}.Estimate(s, cfg))

	assert.Equal(t, "Hello, Scott the Brave", s.Greeting)
}

func TestRunDemo(t *testing.T) {
	demoProject = ""
	demoTrain = false
	demoBatch = false

	require.NoError(t, runDemo(demoCmd, []string{"Scott"}))
}
