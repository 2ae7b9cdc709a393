package main

import (
	"fmt"
	"io"
	"os"

	"event-horizon.klederson.com/internal/app"
	"event-horizon.klederson.com/internal/audio"
	"event-horizon.klederson.com/internal/config"
	"event-horizon.klederson.com/internal/metrics"
	"event-horizon.klederson.com/internal/sensor"
	"event-horizon.klederson.com/internal/timeutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDemo        bool
	flagSerial      string
	flagBaud        int
	flagDevice      string
	flagHorizonCm   float64
	flagMaxCm       float64
	flagMute        bool
	flagLogFile     string
	flagLogLevel    string
	flagMetricsFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "event-horizon",
		Short: "EVENT-HORIZON - drive a ship toward a black hole with a distance sensor",
		Long: `EVENT-HORIZON turns readings from an ultrasonic distance sensor into a
ship falling toward a black hole. The closer your hand, the deeper the
gravity well and the slower ship time runs against mission time.

The sensor is an ESP32 advertising a BLE UART service by default. Use
--serial to read the same payloads over USB, or --demo to run without
hardware.

BLE scanning may require sudo or CAP_NET_ADMIN.`,
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Use a synthetic sensor (no hardware required)")
	f.StringVar(&flagSerial, "serial", "", "Read readings from a serial port instead of BLE (\"auto\" picks the first port)")
	f.IntVar(&flagBaud, "baud", config.DefaultBaudRate, "Serial baud rate")
	f.StringVar(&flagDevice, "device", config.DefaultDeviceName, "BLE local name of the sensor")
	f.Float64Var(&flagHorizonCm, "horizon-cm", config.DefaultTuning().SensorHorizonCm, "Sensor reading (cm) at which the horizon is reached")
	f.Float64Var(&flagMaxCm, "max-cm", config.DefaultTuning().SensorMaxCm, "Sensor reading (cm) at or beyond which the ship is at rest")
	f.BoolVar(&flagMute, "mute", false, "Start with audio muted")
	f.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	f.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	tuning := config.DefaultTuning()
	tuning.SensorHorizonCm = flagHorizonCm
	tuning.SensorMaxCm = flagMaxCm
	if err := tuning.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	// Every line of one run shares an id so appended log files stay separable.
	log := logger.WithField("run", uuid.NewString())

	collector, err := metrics.NewCollector()
	if err != nil {
		return err
	}

	player := newPlayer(log)
	defer player.Close()

	link, filter, source := newLink(log)

	model := app.New(app.Options{
		Link:        link,
		Filter:      filter,
		Source:      source,
		Tuning:      tuning,
		Player:      audio.NewMuter(player, flagMute),
		Clock:       timeutil.RealClock{},
		Logger:      log,
		Telemetry:   collector,
		AutoConnect: true,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	log.WithFields(logrus.Fields{"source": source, "device": filter.Name}).Info("starting")
	_, runErr := p.Run()
	model.Shutdown()

	if flagMetricsFile != "" {
		if err := collector.WriteTextfile(flagMetricsFile); err != nil {
			log.WithError(err).Error("writing metrics")
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return runErr
}

func newLogger(path, level string) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	log.SetLevel(lvl)

	if path == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(file)
	return log, func() { _ = file.Close() }, nil
}

type closablePlayer interface {
	audio.Player
	Close()
}

type silentPlayer struct{ audio.Nop }

func (silentPlayer) Close() {}

// newPlayer opens the speaker, falling back to silence when there is no
// audio device.
func newPlayer(log logrus.FieldLogger) closablePlayer {
	p, err := audio.NewSpeakerPlayer()
	if err != nil {
		log.WithError(err).Warn("audio unavailable, continuing without sound")
		return silentPlayer{}
	}
	return p
}

func newLink(log logrus.FieldLogger) (sensor.Link, sensor.DeviceFilter, string) {
	filter := sensor.DeviceFilter{Name: flagDevice}
	switch {
	case flagDemo:
		return sensor.NewMockLink(log), filter, "DEMO"
	case flagSerial != "":
		if flagSerial != "auto" {
			filter.Port = flagSerial
		}
		return sensor.NewSerialLink(flagBaud, log), filter, "SERIAL"
	default:
		return sensor.NewBLELink(log), filter, "BLE"
	}
}
