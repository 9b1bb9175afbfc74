package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/saturn-connectors/internal/logging"
	"github.com/signalsfoundry/saturn-connectors/timectrl"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadDefaultsWithoutPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	ac := &AnomalyCollector{}
	cfg.Validate(ac)
	assert.Zero(t, ac.Len(), "defaults must validate cleanly")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
start = 2021-10-02T06:00:00Z
duration = "2m"
tick = "500ms"
mode = "realtime"
separate_at = "0s"

[vehicle]
propellant_mass = 1000.0
burn_duration = "30s"
virtual_agc = false

[logging]
level = "debug"
format = "json"
bus = true

[metrics]
addr = ":9090"

[replay]
path = "bus.journal.zst"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2021, 10, 2, 6, 0, 0, 0, time.UTC), cfg.Simulation.Start.UTC())
	assert.Equal(t, 2*time.Minute, cfg.Simulation.Duration.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.Tick.Duration)
	assert.Equal(t, timectrl.RealTime, cfg.Simulation.TimeMode())
	assert.Zero(t, cfg.Simulation.SeparateAt.Duration)
	assert.Equal(t, Default().Simulation.TLIEnableAt, cfg.Simulation.TLIEnableAt)

	assert.Equal(t, 1000.0, cfg.Vehicle.PropellantMass)
	assert.False(t, cfg.Vehicle.VirtualAGC)
	assert.Equal(t, Default().Vehicle.TLELine1, cfg.Vehicle.TLELine1)

	assert.True(t, cfg.Logging.Bus)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "bus.journal.zst", cfg.Replay.Path)

	stack := cfg.StackConfig()
	assert.Equal(t, 1000.0, stack.PropellantMass)
	assert.Equal(t, 30*time.Second, stack.IU.BurnDuration)
	assert.False(t, stack.VirtualAGC)
	assert.Equal(t, cfg.Vehicle.J2Isp, stack.IU.J2Isp)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[vehicle]\nwarp_drive = true\n")
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownKeys)
	assert.Contains(t, err.Error(), "vehicle.warp_drive")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[simulation]\ntick = \"soon\"\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		"LOG_LEVEL":                "debug",
		"LOG_FORMAT":               "console",
		"SIM_METRICS_ADDR":         ":2112",
		"SIM_REPLAY_PATH":          "/tmp/j.zst",
		"SIM_TRACING_ENABLED":      "TRUE",
		"SIM_TRACING_EXPORTER":     "OTLP",
		"SIM_OTLP_ENDPOINT":        "collector:4317",
		"SIM_TRACING_SAMPLE_RATIO": "0.5",
		"SIM_TRACING_SERVICE_NAME": "",
	}))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
	assert.Equal(t, "/tmp/j.zst", cfg.Replay.Path)

	tc := cfg.TracingConfig()
	assert.True(t, tc.Enabled)
	assert.Equal(t, "otlp", tc.Exporter)
	assert.Equal(t, "collector:4317", tc.Endpoint)
	assert.Equal(t, 0.5, tc.SampleRatio)
	assert.Equal(t, "saturn-simulator", tc.ServiceName, "empty variables must not clear values")
}

func TestValidateReplacesBadValues(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Tick = Duration{}
	cfg.Simulation.Mode = "warp"
	cfg.Vehicle.J2Isp = -1
	cfg.Vehicle.TLELine1 = ""
	cfg.Logging.Format = "xml"
	cfg.Tracing.SampleRatio = 3

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "warn", Format: "text", Output: &buf})
	anomalies := NewValidator(log).Validate(context.Background(), cfg)

	fields := make([]string, len(anomalies))
	for i, an := range anomalies {
		fields[i] = an.Field
	}
	assert.ElementsMatch(t, []string{
		"simulation.tick", "simulation.mode", "vehicle.j2_isp",
		"vehicle.tle_line1", "logging.format", "tracing.sample_ratio",
	}, fields)

	def := Default()
	assert.Equal(t, def.Simulation.Tick, cfg.Simulation.Tick)
	assert.Equal(t, def.Simulation.Mode, cfg.Simulation.Mode)
	assert.Equal(t, def.Vehicle.J2Isp, cfg.Vehicle.J2Isp)
	assert.Equal(t, def.Vehicle.TLELine1, cfg.Vehicle.TLELine1)
	assert.Equal(t, def.Logging.Format, cfg.Logging.Format)
	assert.Equal(t, def.Tracing.SampleRatio, cfg.Tracing.SampleRatio)

	assert.Equal(t, 6, strings.Count(buf.String(), "config anomaly"))
	assert.Contains(t, buf.String(), "field=simulation.mode")
}

func TestValidatorFallsBackToContextLogger(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Mode = "warp"

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "warn", Output: &buf})
	ctx := logging.ContextWithLogger(context.Background(), log)

	anomalies := NewValidator(nil).Validate(ctx, cfg)
	require.Len(t, anomalies, 1)
	assert.Contains(t, buf.String(), "field=simulation.mode")
}

func TestApplyEnvIgnoresOutOfRangeSampleRatio(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{"SIM_TRACING_SAMPLE_RATIO": "3"}))
	assert.Equal(t, Default().Tracing.SampleRatio, cfg.Tracing.SampleRatio)
}

func TestAnomalyString(t *testing.T) {
	an := Anomaly{Field: "vehicle.j2_isp", Reason: "must be positive", Actual: -1.0, Fallback: 421.0}
	assert.Equal(t, "vehicle.j2_isp must be positive: got -1, using 421", an.String())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("5m50s")))
	assert.Equal(t, 5*time.Minute+50*time.Second, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5m50s", string(out))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(cfg *Config) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// Keep rewriting until the watcher has registered and reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-changes:
			if cfg.Logging.Level != "debug" {
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o644))
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "sim.toml"), nil, func(*Config) {})
	assert.Error(t, err)
}
