package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/internal/config"
	"github.com/signalsfoundry/saturn-connectors/internal/logging"
	"github.com/signalsfoundry/saturn-connectors/internal/observability"
	"github.com/signalsfoundry/saturn-connectors/registry"
	"github.com/signalsfoundry/saturn-connectors/replay"
	"github.com/signalsfoundry/saturn-connectors/sim"
	"github.com/signalsfoundry/saturn-connectors/timectrl"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file")
	duration := flag.Duration("duration", 0, "total simulation duration (overrides config)")
	tick := flag.Duration("tick", 0, "tick interval (overrides config)")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time; overrides config)")
	replayPath := flag.String("replay", "", "journal every connector round trip to this path (.zst compresses)")
	watch := flag.Bool("watch", false, "reload the logging level when the config file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(context.Background(), "load config", logging.Err(err))
		os.Exit(1)
	}
	cfg.ApplyEnv(os.LookupEnv)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Simulation.Duration.Duration = *duration
		case "tick":
			cfg.Simulation.Tick.Duration = *tick
		case "accelerated":
			mode := timectrl.RealTime
			if *accelerated {
				mode = timectrl.Accelerated
			}
			cfg.Simulation.Mode = mode.String()
		case "replay":
			cfg.Replay.Path = *replayPath
		}
	})

	level := new(slog.LevelVar)
	log := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		LevelVar: level,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, log)

	config.NewValidator(nil).Validate(ctx, cfg)
	level.Set(logging.ParseLevel(cfg.Logging.Level))

	if *watch && *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, nil, func(next *config.Config) {
				level.Set(logging.ParseLevel(next.Logging.Level))
			})
			if err != nil {
				log.Warn(ctx, "config watch stopped", logging.Err(err))
			}
		}()
	}

	summary, err := run(ctx, cfg, nil)
	if err != nil {
		log.Error(ctx, "simulation failed", logging.Err(err))
		os.Exit(1)
	}
	fmt.Printf("Simulation complete: frames=%d phase=%s separated=%v delta-v=%.1f m/s records=%d\n",
		summary.Frames, summary.Phase, summary.Separated, summary.DeltaV, summary.Records)
}

// Summary reports how a run ended.
type Summary struct {
	Frames    int
	Phase     sim.TLIPhase
	Separated bool
	DeltaV    float64
	Records   uint64
}

// run simulates the stack described by cfg until its duration elapses or
// ctx is done, logging to the logger carried by ctx. A nil reg registers
// metrics with a private registry.
func run(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (Summary, error) {
	var summary Summary
	log := logging.FromContext(ctx)

	shutdownTracing, err := observability.InitTracing(ctx, cfg.TracingConfig(), log)
	if err != nil {
		return summary, fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	bus, err := observability.NewBusCollector(reg)
	if err != nil {
		return summary, fmt.Errorf("bus metrics: %w", err)
	}
	frames, err := observability.NewSimCollector(reg)
	if err != nil {
		return summary, fmt.Errorf("sim metrics: %w", err)
	}
	if metricsSrv := serveMetrics(cfg.Metrics.Addr, bus, log); metricsSrv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	observers := []connector.Observer{
		bus,
		observability.NewTracingObserver(ctx, otel.GetTracerProvider()),
		observability.LogObserver{Log: log, Verbose: cfg.Logging.Bus},
	}
	var recorder *replay.Recorder
	if cfg.Replay.Path != "" {
		recorder, err = replay.Create(cfg.Replay.Path)
		if err != nil {
			return summary, err
		}
		observers = append(observers, recorder)
		log.Info(ctx, "journaling connector traffic", logging.String("path", cfg.Replay.Path))
	}

	r := registry.New(registry.WithObserver(connector.Observers(observers...)))
	unsubscribe := r.Subscribe(func(ev registry.Event) {
		connected := len(r.Channels())
		bus.RecordTopology(ev.Channel.String(), ev.Type.String(), connected)
		log.Info(ctx, "bus topology changed",
			logging.String("event", ev.Type.String()),
			logging.String("channel", ev.Channel.String()),
			logging.Int("connected", connected),
		)
	})
	defer unsubscribe()

	stack, err := sim.NewStack(cfg.StackConfig(), sim.WithRegistry(r), sim.WithLogger(log))
	if err != nil {
		if recorder != nil {
			_ = recorder.Close()
		}
		return summary, err
	}

	simCfg := cfg.Simulation
	tc := timectrl.NewTimeController(simCfg.Start, simCfg.Tick.Duration, simCfg.TimeMode())

	var tliAt, inhibitAt, separateAt <-chan time.Time
	if simCfg.TLIEnableAt.Duration > 0 {
		tliAt = tc.After(simCfg.TLIEnableAt.Duration)
	}
	if simCfg.TLIInhibitAt.Duration > 0 {
		inhibitAt = tc.After(simCfg.TLIInhibitAt.Duration)
	}
	if simCfg.SeparateAt.Duration > 0 {
		separateAt = tc.After(simCfg.SeparateAt.Duration)
	}

	var stepErr error
	tc.AddListener(func(simTime time.Time, dt time.Duration) {
		select {
		case <-tliAt:
			log.Info(ctx, "TLI enable switch up", logging.String("sim_time", simTime.Format(time.RFC3339)))
			stack.Saturn().SetTLIEnableSwitch(sim.SwitchUp)
		default:
		}
		select {
		case <-inhibitAt:
			agc := stack.AGC()
			bits, _ := agc.Channel(sim.ChannelIU)
			delivered := agc.WriteChannel(sim.ChannelIU, bits|sim.TLIInhibitBit)
			log.Info(ctx, "AGC TLI inhibit raised",
				logging.String("sim_time", simTime.Format(time.RFC3339)),
				logging.Bool("delivered", delivered),
			)
		default:
		}

		began := time.Now()
		stack.Step(simTime, dt)
		frames.ObserveFrame(time.Since(began), int(stack.Saturn().Stage()))
		summary.Frames++

		select {
		case <-separateAt:
			if err := stack.SeparateCSM(); err != nil {
				stepErr = errors.Join(stepErr, err)
				return
			}
			frames.IncSeparations()
		default:
		}

		tm := stack.IU().Telemetry()
		log.Debug(ctx, "frame",
			logging.String("sim_time", simTime.Format(time.RFC3339)),
			logging.String("phase", stack.IU().Phase().String()),
			logging.Float("altitude_m", tm.Altitude),
			logging.Float("apoapsis_m", tm.ApDist),
			logging.Float("mass_kg", tm.Mass),
		)
	})

	log.Info(ctx, "starting simulation",
		logging.String("duration", simCfg.Duration.String()),
		logging.String("tick", simCfg.Tick.String()),
		logging.String("mode", simCfg.TimeMode().String()),
	)
	<-tc.Start(ctx, simCfg.Duration.Duration)

	summary.Phase = stack.IU().Phase()
	summary.Separated = stack.Separated()
	summary.DeltaV = stack.Saturn().DeltaV()
	if recorder != nil {
		summary.Records = recorder.Count()
		if err := recorder.Close(); err != nil {
			stepErr = errors.Join(stepErr, fmt.Errorf("close journal: %w", err))
		}
	}
	return summary, stepErr
}

func serveMetrics(addr string, collector *observability.BusCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
