package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENC_KEY", "00112233445566778899aabbccddeeff")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "TPSO", cfg.RefNumber.Prefix)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 60*time.Second, cfg.Beacukai.Timeout)
	assert.Equal(t, 1, cfg.Beacukai.BulkConcurrency)
	assert.Equal(t, []string{"beacukai_cocotangki", "beacukai_status"}, cfg.Beacukai.Services)
	assert.Equal(t, "Asia/Jakarta", cfg.Location.String())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENC_KEY", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("ENC_KEY", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"short prefix":     {"REF_PREFIX", "TPS"},
		"bad driver":       {"DB_DRIVER", "mysql"},
		"bad timeout":      {"SOAP_TIMEOUT", "soon"},
		"zero concurrency": {"BULK_CONCURRENCY", "0"},
		"bad location":     {"TZ_LOCATION", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
