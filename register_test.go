// FILE: lixenwraith/cfgtree/register_test.go
package cfgtree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStruct(t *testing.T) {
	type Limits struct {
		Burst int `toml:"burst"`
	}
	type Config struct {
		Host     string        `toml:"host" doc:"Interface to bind."`
		Secret   string        `toml:"secret" cfg:"hidden"`
		Session  string        `toml:"session" cfg:"ephemeral"`
		Ratio    float64       `toml:"ratio"`
		Started  time.Time     `toml:"started"`
		Interval time.Duration `toml:"interval"`
		Skipped  string        `toml:"-"`
		Untagged int
		internal int
		Limits   Limits  `toml:"limits"`
		Optional *Limits `toml:"optional"`
	}

	t.Run("FieldsAndSections", func(t *testing.T) {
		root := New(WithEnvLookup(EnvMap(nil)))
		started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := root.RegisterStruct("", &Config{
			Host:     "localhost",
			Ratio:    0.25,
			Started:  started,
			Interval: time.Second,
			Untagged: 7,
			Limits:   Limits{Burst: 10},
		})
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"host", "secret", "session", "ratio", "started", "interval", "Untagged"},
			settingNames(root.Settings()))
		assert.Empty(t, root.Pending())

		host, _ := root.Setting("host")
		assert.Equal(t, "Interface to bind.", host.Doc())

		secret, _ := root.Setting("secret")
		assert.True(t, secret.Hidden())
		session, _ := root.Setting("session")
		assert.True(t, session.Ephemeral())

		limits, ok := root.Subsection("limits")
		require.True(t, ok)
		burst, err := limits.Int("burst")
		require.NoError(t, err)
		assert.Equal(t, 10, burst)

		_, ok = root.Subsection("optional")
		assert.False(t, ok, "nil struct pointers are skipped")

		require.NoError(t, root.Set("ratio", "0.5"))
		ratio, _ := root.Float64("ratio")
		assert.Equal(t, 0.5, ratio)

		require.NoError(t, root.Set("started", "2025-06-01T00:00:00Z"))
		v, _ := root.Get("started")
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), v)

		require.NoError(t, root.Set("interval", "250ms"))
		d, _ := root.Duration("interval")
		assert.Equal(t, 250*time.Millisecond, d)
	})

	t.Run("Prefix", func(t *testing.T) {
		root := New()
		require.NoError(t, root.RegisterStruct("app.core", Limits{Burst: 3}))

		s := root.FindSetting("app", "core", "burst")
		require.NotNil(t, s)
		assert.Equal(t, "app.core.burst", s.Path())
	})

	t.Run("InvalidInput", func(t *testing.T) {
		root := New()
		assert.Error(t, root.RegisterStruct("", 42))
		assert.Error(t, root.RegisterStruct("", (*Config)(nil)))
	})
}
