package kairos_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosrun/kairos"
)

func TestDefaultConfig(t *testing.T) {
	cfg := kairos.DefaultConfig()
	assert.Equal(t, 512, cfg.MaxAutoCancelBatch)
	assert.Equal(t, 1, cfg.DefaultParallelism)
	assert.Equal(t, 8, cfg.TrampolineQueueCapacity)
}

func TestLoadConfigFillsUnsetFieldsFromDefaults(t *testing.T) {
	cfg, err := kairos.LoadConfig(strings.NewReader(`default_parallelism: 4`))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DefaultParallelism)
	assert.Equal(t, 512, cfg.MaxAutoCancelBatch)
	assert.Equal(t, 8, cfg.TrampolineQueueCapacity)
}

func TestLoadConfigEmptyDocumentIsAllDefaults(t *testing.T) {
	cfg, err := kairos.LoadConfig(strings.NewReader(``))
	require.NoError(t, err)
	assert.Equal(t, kairos.DefaultConfig(), cfg)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	_, err := kairos.LoadConfig(strings.NewReader(`not: [valid`))
	assert.Error(t, err)
}
