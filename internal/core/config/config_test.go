package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, c.DB.MaxOpenConns)
	assert.Equal(t, "sid", c.Session.CookieName)
	assert.Equal(t, 120, c.Session.TTLMin)
	assert.Equal(t, "memory", c.Session.Store)
	assert.Equal(t, DefaultPanels, c.Static.Panels)
	assert.Empty(t, c.Session.Secret)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	p := writeYAML(t, `
db:
  driver: sqlite
  dsn: file::memory:
session:
  secret: from-file
  ttlMin: 30
static:
  panels: [perfil.html]
`)
	t.Setenv("APP_SESSION_SECRET", strongSecret)

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 30, c.Session.TTLMin)
	assert.Equal(t, strongSecret, c.Session.Secret)
	assert.Equal(t, []string{"perfil.html"}, c.Static.Panels)
	assert.NoError(t, c.Validate())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DB:      DB{Driver: "mysql"},
			Session: Session{Secret: strongSecret, Store: "memory"},
			Storage: Storage{Driver: "local"},
		}
	}
	require.NoError(t, base().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty secret", func(c *Config) { c.Session.Secret = "" }, ErrWeakSecret},
		{"short secret", func(c *Config) { c.Session.Secret = "keyboard cat" }, ErrWeakSecret},
		{"placeholder secret", func(c *Config) {
			c.Session.Secret = "change-me-to-at-least-32-random-bytes-please"
		}, ErrWeakSecret},
		{"driver", func(c *Config) { c.DB.Driver = "oracle" }, ErrUnknownDriver},
		{"store", func(c *Config) { c.Session.Store = "file" }, ErrUnknownStore},
		{"redis store without addr", func(c *Config) { c.Session.Store = "redis" }, ErrUnknownStore},
		{"storage", func(c *Config) { c.Storage.Driver = "ftp" }, ErrUnknownStorage},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = "s3" }, ErrUnknownStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			assert.ErrorIs(t, c.Validate(), tc.want)
		})
	}
}
