package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"modembridge/internal/app"
	"modembridge/internal/bridge"
	"modembridge/internal/button"
	"modembridge/internal/config"
	"modembridge/internal/gpio"
	"modembridge/internal/gps"
	"modembridge/internal/power"
	"modembridge/internal/selftest"
	"modembridge/internal/serialio"
)

func main() {
	var configPath, variant string
	flag.StringVar(&configPath, "config", "./modembridge.yaml", "Path to YAML config")
	flag.StringVar(&variant, "variant", "", "Override report variant (simple|extended)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("config load failed")
	}
	if variant != "" {
		cfg.Variant = variant
	}
	setLevel(cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("modembridge stopped")
	}
	log.Info().Msg("modembridge stopping")
}

func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

var (
	openOutputFn  = gpio.OpenOutput
	openInputFn   = gpio.OpenInput
	openSerialFn  = serialio.Open
	openConsoleFn = serialio.OpenConsole
)

func run(ctx context.Context, cfg config.Config) error {
	v, err := gps.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}

	// GPS health is measured from board bring-up, not from the first loop
	// iteration.
	start := time.Now()

	lines, err := openLines(cfg.GPIO, cfg.Button.Enable)
	if err != nil {
		return err
	}
	defer lines.Close()

	seq := &power.Sequencer{
		PowerOn:    lines.powerOn,
		Reset:      lines.reset,
		ModemPower: lines.modemPower,
		ModemDTR:   lines.dtr,
		GPSWakeup:  lines.gpsWakeup,
		PulseLow:   cfg.Power.PulseLow,
		PulseHigh:  cfg.Power.PulseHigh,
	}
	if err := seq.Run(ctx); err != nil {
		return err
	}

	debug, err := openDebug(cfg.Debug)
	if err != nil {
		return err
	}
	defer debug.Close()
	modemPort, err := openSerialFn(cfg.Modem.Device, cfg.Modem.Baud)
	if err != nil {
		return err
	}
	defer modemPort.Close()
	gpsPort, err := openSerialFn(cfg.GPS.Device, cfg.GPS.Baud)
	if err != nil {
		return err
	}
	defer gpsPort.Close()

	log.Info().
		Str("debug", cfg.Debug.Device).
		Str("modem", cfg.Modem.Device).
		Str("gps", cfg.GPS.Device).
		Str("variant", cfg.Variant).
		Msg("modembridge starting")

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(cfg.Power.Settle):
	}

	if err := app.PrintBanner(debug, cfg.Button.Enable); err != nil {
		log.Warn().Err(err).Msg("banner write failed")
	}

	ingest := &gps.Ingest{
		In:      gpsPort,
		Decoder: gps.NewDecoder(),
		Reporter: &gps.Reporter{
			Out:      debug,
			Variant:  v,
			Interval: cfg.GPS.ReportInterval,
		},
	}
	if cfg.GPS.Echo {
		ingest.Echo = debug
	}

	loop := &app.Loop{
		Out: debug,
		GPS: ingest,
		Health: gps.Health{
			Grace:    cfg.GPS.Grace,
			MinChars: uint32(cfg.GPS.MinChars),
			Pause:    cfg.GPS.WarnPause,
		},
		Bridge: bridge.New(debug, modemPort, bridge.WithMaxLine(cfg.Bridge.MaxLine)),
		Start:  start,
		Yield:  cfg.Loop.Yield,
	}

	if cfg.Button.Enable {
		loop.Button = button.NewDebouncer(cfg.Button.Debounce)
		loop.Pressed = button.ActiveLow(lines.button.Value)
		session := &app.SelfTestSession{
			Port:    modemPort,
			Out:     debug,
			Timeout: cfg.Modem.Timeout,
			Trace:   cfg.Modem.Trace,
			Config: selftest.Config{
				APN:            cfg.SelfTest.APN,
				User:           cfg.SelfTest.User,
				Password:       cfg.SelfTest.Password,
				SIMPin:         cfg.SelfTest.SIMPin,
				Host:           cfg.SelfTest.Host,
				Path:           cfg.SelfTest.Path,
				NetworkTimeout: cfg.SelfTest.NetworkTimeout,
				BodyLimit:      cfg.SelfTest.BodyLimit,
				Progress:       cfg.SelfTest.Progress,
			},
		}
		loop.SelfTest = session.Run
	}

	return loop.Run(ctx)
}

func openDebug(c config.SerialConfig) (*serialio.Port, error) {
	if c.Device == config.ConsoleDevice {
		return openConsoleFn()
	}
	return openSerialFn(c.Device, c.Baud)
}
