package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	for _, tt := range []struct {
		name          string
		verbose, json bool
	}{
		{"console", false, false},
		{"console verbose", true, false},
		{"json", false, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Initialize(tt.verbose, tt.json))
			assert.Equal(t, tt.verbose, Logger.Desugar().Core().Enabled(zap.DebugLevel))
			assert.True(t, Logger.Desugar().Core().Enabled(zap.WarnLevel))
			assert.NotNil(t, Named("test"))
		})
	}
}
