package env

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return assert.AnError
	}
	return nil
}

type storage struct {
	Path  string        `env:"TEST_STORAGE_PATH" env-description:"database file"`
	Keep  time.Duration `env:"TEST_STORAGE_KEEP" env-default:"24h"`
	Debug *bool         `env:"TEST_STORAGE_DEBUG" env-default:"false"`
}

type config struct {
	Token    string            `env:"TEST_TOKEN,required" env-description:"api token"`
	Workers  int               `env:"TEST_WORKERS" env-default:"4"`
	Ratio    float64           `env:"TEST_RATIO" env-default:"0.5"`
	Limits   map[string]uint16 `env:"TEST_LIMITS"`
	Endpoint url.URL           `env:"TEST_ENDPOINT" env-default:"https://api.example.com/v1"`
	Zone     *time.Location    `env:"TEST_ZONE" env-default:"UTC"`
	Level    level             `env:"TEST_LEVEL" env-default:"low"`
	Storage  *storage
	ignored  string
}

func TestReadDefaults(t *testing.T) {
	t.Setenv("TEST_TOKEN", "secret")

	var c config
	require.NoError(t, Read(&c))

	assert.Equal(t, "secret", c.Token)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 0.5, c.Ratio)
	assert.Empty(t, c.Limits)
	assert.Equal(t, "api.example.com", c.Endpoint.Host)
	assert.Equal(t, time.UTC, c.Zone)
	assert.Equal(t, level(1), c.Level)
	require.NotNil(t, c.Storage)
	assert.Equal(t, 24*time.Hour, c.Storage.Keep)
	require.NotNil(t, c.Storage.Debug)
	assert.False(t, *c.Storage.Debug)
	assert.Empty(t, c.ignored)
}

func TestReadOverrides(t *testing.T) {
	t.Setenv("TEST_TOKEN", "secret")
	t.Setenv("TEST_WORKERS", "0x10")
	t.Setenv("TEST_LIMITS", "users:10,chats:200")
	t.Setenv("TEST_ZONE", "Asia/Kolkata")
	t.Setenv("TEST_LEVEL", "HIGH")
	t.Setenv("TEST_STORAGE_PATH", "/var/lib/app.db")
	t.Setenv("TEST_STORAGE_KEEP", "90m")

	var c config
	require.NoError(t, Read(&c))

	assert.Equal(t, 16, c.Workers)
	assert.Equal(t, map[string]uint16{"users": 10, "chats": 200}, c.Limits)
	assert.Equal(t, "Asia/Kolkata", c.Zone.String())
	assert.Equal(t, level(2), c.Level)
	assert.Equal(t, "/var/lib/app.db", c.Storage.Path)
	assert.Equal(t, 90*time.Minute, c.Storage.Keep)
}

func TestReadErrors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		var c config
		err := Read(&c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TEST_TOKEN is required")
	})

	bad := map[string]string{
		"TEST_WORKERS":      "many",
		"TEST_LIMITS":       "users=10",
		"TEST_ZONE":         "Mars/Olympus",
		"TEST_LEVEL":        "medium",
		"TEST_STORAGE_KEEP": "forever",
	}
	for name, value := range bad {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TEST_TOKEN", "secret")
			t.Setenv(name, value)

			var c config
			err := Read(&c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}

	t.Run("not a struct", func(t *testing.T) {
		n := 1
		assert.Error(t, Read(&n))
	})
}

func TestDescribe(t *testing.T) {
	vars, err := Describe(&config{})
	require.NoError(t, err)

	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{
		"TEST_TOKEN", "TEST_WORKERS", "TEST_RATIO", "TEST_LIMITS", "TEST_ENDPOINT",
		"TEST_ZONE", "TEST_LEVEL", "TEST_STORAGE_PATH", "TEST_STORAGE_KEEP", "TEST_STORAGE_DEBUG",
	}, names)
	assert.Equal(t, Var{Name: "TEST_TOKEN", Description: "api token", Required: true}, vars[0])
}

func TestUsage(t *testing.T) {
	usage := Usage(&storage{})
	assert.Equal(t, `  TEST_STORAGE_PATH
      database file
  TEST_STORAGE_KEEP (default "24h")
  TEST_STORAGE_DEBUG (default "false")
`, usage)
}

func TestTagOptions(t *testing.T) {
	name, opts := parseTag("APP_TOKEN,required,secret")
	assert.Equal(t, "APP_TOKEN", name)
	assert.True(t, opts.Contains("required"))
	assert.True(t, opts.Contains("secret"))
	assert.False(t, opts.Contains("requ"))
}
