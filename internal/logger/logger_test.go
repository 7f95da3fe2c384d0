package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupAppliesLevel(t *testing.T) {
	Setup("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetupFallsBackToInfoOnUnknownLevel(t *testing.T) {
	Setup("nonsense", "pretty")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
