package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
)

type testConfig struct {
	LogLevel string `conf:"log_level"`
	Proxy    struct {
		Upstream string        `conf:"upstream"`
		Timeout  time.Duration `conf:"timeout"`
	} `conf:"proxy"`
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: MergeDefaults("proxy", DefaultConfig{
			"upstream": "https://backend.example/course-inquiry",
			"timeout":  "30s",
		}),
		Log: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example/course-inquiry", cfg.Proxy.Upstream)
	assert.Equal(t, 30*time.Second, cfg.Proxy.Timeout)
}

func TestParse_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PROXY__UPSTREAM", "https://staging.example/course-inquiry")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: MergeDefaults("proxy", DefaultConfig{
			"upstream": "https://backend.example/course-inquiry",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example/course-inquiry", cfg.Proxy.Upstream)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_EnvFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(name, []byte("PROXY__UPSTREAM=https://dotenv.example\nPROXY__TIMEOUT=5s\n"), 0o600))

	cfg, err := Parse[testConfig](ParseOptions{
		EnvFile: name,
		Log:     zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://dotenv.example", cfg.Proxy.Upstream)
	assert.Equal(t, 5*time.Second, cfg.Proxy.Timeout)
}

func TestParse_ProcessEnvBeatsEnvFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(name, []byte("PROXY__UPSTREAM=https://dotenv.example\n"), 0o600))

	t.Setenv("PROXY__UPSTREAM", "https://process.example")

	cfg, err := Parse[testConfig](ParseOptions{EnvFile: name})
	require.NoError(t, err)

	assert.Equal(t, "https://process.example", cfg.Proxy.Upstream)
}

func TestParse_JSONFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(name, []byte(`{"proxy":{"upstream":"https://file.example"}}`), 0o600))

	cfg, err := Parse[testConfig](ParseOptions{FileName: name})
	require.NoError(t, err)

	assert.Equal(t, "https://file.example", cfg.Proxy.Upstream)
}

func TestParse_CliFlags(t *testing.T) {
	var cfg testConfig
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "upstream"},
			&cli.DurationFlag{Name: "timeout"},
			&cli.StringFlag{Name: "log-level"},
		},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = Parse[testConfig](ParseOptions{
				Defaults: MergeDefaults("proxy", DefaultConfig{
					"upstream": "https://backend.example/course-inquiry",
					"timeout":  "30s",
				}),
				Cli: ctx,
				CliMap: map[string]string{
					"upstream": "proxy.upstream",
					"timeout":  "proxy.timeout",
				},
				Log: zaptest.NewLogger(t),
			})
			return err
		},
	}

	require.NoError(t, app.Run([]string{"test", "--timeout", "1m30s", "--log-level", "warn"}))

	assert.Equal(t, 90*time.Second, cfg.Proxy.Timeout)
	assert.Equal(t, "https://backend.example/course-inquiry", cfg.Proxy.Upstream)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_CliFlagsBeatEnv(t *testing.T) {
	t.Setenv("PROXY__UPSTREAM", "https://env.example")

	var cfg testConfig
	app := &cli.App{
		Flags: []cli.Flag{&cli.StringFlag{Name: "upstream"}},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = Parse[testConfig](ParseOptions{
				Cli:    ctx,
				CliMap: map[string]string{"upstream": "proxy.upstream"},
			})
			return err
		},
	}

	require.NoError(t, app.Run([]string{"test", "--upstream", "https://flag.example"}))

	assert.Equal(t, "https://flag.example", cfg.Proxy.Upstream)
}

func TestTransformEnv(t *testing.T) {
	assert.Equal(t, "proxy.upstream", transformEnv("PROXY__UPSTREAM", ""))
	assert.Equal(t, "client.base_url", transformEnv("CLIENT__BASE_URL", ""))
	assert.Equal(t, "log_level", transformEnv("LOG_LEVEL", ""))
}

func TestMergeDefaults(t *testing.T) {
	merged := MergeDefaults("chat", DefaultConfig{"model": "m"}, DefaultConfig{"history_limit": 20})
	assert.Equal(t, DefaultConfig{"chat.model": "m", "chat.history_limit": 20}, merged)
}
