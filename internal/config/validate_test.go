package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.Empty(t, Default().Validate())
	assert.NoError(t, Default().Check())
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		key    string
	}{
		{"too many workers", func(c *Config) { c.Workers = 500 }, "workers"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"huge upload", func(c *Config) { c.Server.MaxUploadMB = 4096 }, "server.max_upload_mb"},
		{"shared folders", func(c *Config) { c.Server.UploadFolder = c.OutputFolder + "/" }, "server.upload_folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.key, errs[0].Key)
		})
	}
}

func TestCheck_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Workers = -1
	cfg.Server.MaxUploadMB = 0

	err := cfg.Check()
	require.Error(t, err)
	var ve ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "server.max_upload_mb")
}

func TestValidate_AnyLogoPathAccepted(t *testing.T) {
	for _, p := range []string{"assets/logo.webp", "assets/logo", "assets/Logo.PNG", "missing.svg"} {
		cfg := Default()
		cfg.LogoPath = p
		assert.NoError(t, cfg.Check(), p)
	}
}
