package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/avatarlink/internal/avatar"
	"github.com/srg/avatarlink/internal/console"
	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/groutine"
	"github.com/srg/avatarlink/internal/link"
	"github.com/srg/avatarlink/internal/ranging"
	"github.com/srg/avatarlink/pkg/config"
	"golang.org/x/sys/unix"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the avatar device",
	Long: `Run the avatar device until interrupted.

Keys:
  space/enter  press the button
  q            quit

With --radio loopback an in-process central is attached:
  c            connect/disconnect the central
  0-5          write an expression code (see "avatarlink expressions")`,
	Args: cobra.NoArgs,
	RunE: runDevice,
}

var (
	runConfigPath string
	runRadio      string
	runName       string
	runFailBoot   bool
	runNoColor    bool
)

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "YAML config file")
	runCmd.Flags().StringVar(&runRadio, "radio", config.RadioHCI, "Radio backend (hci, loopback)")
	runCmd.Flags().StringVarP(&runName, "name", "n", "", "Advertised device name")
	runCmd.Flags().BoolVar(&runFailBoot, "fail-boot", false, "Make the simulated sensor fail bring-up")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "Disable colored faces")
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("radio") {
		cfg.Radio = runRadio
	}
	if flags.Changed("name") {
		cfg.DeviceName = runName
	}
	if flags.Changed("fail-boot") {
		cfg.Sensor.FailBoot = runFailBoot
	}
	if flags.Changed("no-color") {
		cfg.Face.Color = !runNoColor
	}
	return cfg.Validate()
}

func runDevice(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := configureLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), unix.SIGINT, unix.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := console.NewKeyReader(os.Stdin, logger)
	var out io.Writer = cmd.OutOrStdout()
	if keys.Raw() {
		out = console.CRLFWriter{W: out}
		logger.SetOutput(console.CRLFWriter{W: os.Stderr})
	}

	endpoint := link.NewEndpoint(logger)

	var loopback *link.Loopback
	var radio link.Radio
	switch cfg.Radio {
	case config.RadioLoopback:
		loopback = link.NewLoopback(endpoint.OnConnect, endpoint.OnDisconnect, logger)
		radio = loopback
	default:
		radio, err = newHCIRadio(cfg.HCIDevice, endpoint, logger)
		if err != nil {
			return err
		}
	}

	button := &console.Button{}
	central := &loopbackCentral{loopback: loopback, logger: logger}

	// The reader lives until the process exits; stdin cannot be interrupted.
	_, err = keys.Start(ctx, func(key byte) {
		switch key {
		case ' ', '\r', '\n':
			button.Press()
		case 'q', 3: // 3 is Ctrl+C in raw mode
			cancel()
		default:
			central.handleKey(ctx, key)
		}
	})
	if err != nil {
		return err
	}
	defer keys.Restore()

	screen := face.NewTerminal(out, cfg.Face.Color)
	device := avatar.New(avatar.Options{
		DeviceName:     cfg.DeviceName,
		PromptText:     cfg.PromptText,
		PromptTextSize: cfg.PromptTextSize,
		TickInterval:   cfg.TickInterval,
		SampleInterval: cfg.SampleInterval,
	}, avatar.Deps{
		Radio:    radio,
		Endpoint: endpoint,
		Sensor: ranging.NewSimulatedSensor(ranging.SimulatedOptions{
			MinMM:        cfg.Sensor.MinMM,
			MaxMM:        cfg.Sensor.MaxMM,
			Period:       cfg.Sensor.Period,
			TimingBudget: cfg.Sensor.TimingBudget,
			FailBoot:     cfg.Sensor.FailBoot,
		}),
		Renderer: screen,
		Display:  screen,
		Button:   button,
	}, logger)

	logger.WithFields(logrus.Fields{
		"name":  cfg.DeviceName,
		"radio": cfg.Radio,
	}).Info("Device starting")

	err = device.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loopbackCentral drives the in-process central from the keyboard. It is
// only touched from the key reader goroutine.
type loopbackCentral struct {
	loopback *link.Loopback
	logger   *logrus.Logger
	cancel   context.CancelFunc
	done     <-chan struct{}
}

func (c *loopbackCentral) handleKey(ctx context.Context, key byte) {
	if c.loopback == nil {
		return
	}

	switch {
	case key == 'c':
		if c.loopback.Connected() {
			c.stop()
			c.loopback.Disconnect()
			return
		}
		c.loopback.Connect()
		if err := c.watchDistance(ctx); err != nil {
			c.logger.WithError(err).Warn("Loopback subscribe failed")
		}
	case key >= '0' && key <= '9':
		e, err := face.ParseExpression(string(key))
		if err != nil {
			c.logger.WithError(err).Warn("Key is not an expression")
			return
		}
		if err := c.loopback.WriteExpression(byte(e)); err != nil {
			c.logger.WithError(err).Warn("Loopback write failed")
		}
	}
}

// watchDistance subscribes to distance notifications and logs each decoded sample.
func (c *loopbackCentral) watchDistance(ctx context.Context) error {
	ch, err := c.loopback.Subscribe(16)
	if err != nil {
		return fmt.Errorf("subscribe distance: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = groutine.Go(watchCtx, "loopback-distance", func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case payload := <-ch:
				mm, err := link.DecodeDistance(payload)
				if err != nil {
					c.logger.WithError(err).Warn("Malformed distance notification")
					continue
				}
				c.logger.WithField("distance_mm", mm).Info("Central received distance")
			}
		}
	})
	return nil
}

func (c *loopbackCentral) stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
		c.cancel, c.done = nil, nil
	}
}
