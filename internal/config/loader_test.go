package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/vstrike/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Sports, convey.ShouldContain, "basketball_nba")
				convey.So(cfg.APIKeys, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VSTRIKE_ADDR", ":8080")
			_ = os.Setenv("VSTRIKE_API_KEYS", "k1, k2,k3")
			_ = os.Setenv("VSTRIKE_CACHE_TTL", "90s")
			_ = os.Setenv("VSTRIKE_PARLEY_LEGS", "4")
			_ = os.Setenv("VSTRIKE_DYNAMIC_PARLEY_SIZE", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.APIKeys, convey.ShouldResemble, []string{"k1", "k2", "k3"})
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.ParleyLegs, convey.ShouldEqual, 4)
				convey.So(cfg.DynamicParleySize, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
timezone: "UTC"
sports: [basketball_nba, icehockey_nhl]
store_backend: redis
redis_addr: "cache:6379"
bankroll: 50.5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("VSTRIKE_CONFIG", tmpFile)
			_ = os.Setenv("VSTRIKE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.Sports, convey.ShouldResemble, []string{"basketball_nba", "icehockey_nhl"})
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6379")
				convey.So(cfg.Bankroll, convey.ShouldEqual, 50.5)
				convey.So(cfg.ParleyLegs, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("VSTRIKE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("VSTRIKE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When validation fails", func() {
			cases := map[string]string{
				"VSTRIKE_ADDR":                 "",
				"VSTRIKE_TIMEZONE":             "Mars/Olympus",
				"VSTRIKE_STORE_BACKEND":        "sqlite",
				"VSTRIKE_SCHEDULE_GENERATE_AT": "9am",
			}
			for key, val := range cases {
				clearConfigEnvVars()
				_ = os.Setenv(key, val)
				cfg, err := config.Load(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			}
			clearConfigEnvVars()
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("VSTRIKE_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"VSTRIKE_CONFIG",
		"VSTRIKE_ADDR",
		"VSTRIKE_API_KEYS",
		"VSTRIKE_CACHE_TTL",
		"VSTRIKE_PARLEY_LEGS",
		"VSTRIKE_DYNAMIC_PARLEY_SIZE",
		"VSTRIKE_TIMEZONE",
		"VSTRIKE_STORE_BACKEND",
		"VSTRIKE_SCHEDULE_GENERATE_AT",
		"VSTRIKE_QUEUE_SIZE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "vstrike-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
