package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/avatarlink/internal/avatar"
	"github.com/srg/avatarlink/internal/link"
	"github.com/srg/avatarlink/internal/testutils"
	"github.com/srg/avatarlink/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CommandTestSuite runs subcommands through the root command and captures their output.
type CommandTestSuite struct {
	suite.Suite
}

// ExecuteCommand runs the root command with args, returns output and error.
func (s *CommandTestSuite) ExecuteCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func (s *CommandTestSuite) TestExpressionsListsEveryCode() {
	// GOAL: Verify the expression table covers the whole enumeration in code order
	//
	// TEST SCENARIO: run "expressions" → header plus six rows, happy first, neutral last

	out, err := s.ExecuteCommand("expressions", "--format", "table")
	s.Require().NoError(err)

	testutils.NewTextAsserter(s.T()).Assert(out, `CODE  HEX   NAME
0     0x00  happy
1     0x01  angry
2     0x02  sad
3     0x03  doubt
4     0x04  sleepy
5     0x05  neutral
`)
}

func (s *CommandTestSuite) TestExpressionsJSON() {
	out, err := s.ExecuteCommand("expressions", "--format", "json")
	s.Require().NoError(err)

	testutils.NewJSONAsserter(s.T(), testutils.WithIgnoredFields("hex")).Assert(out, `[
		{"code": 0, "name": "happy"},
		{"code": 1, "name": "angry"},
		{"code": 2, "name": "sad"},
		{"code": 3, "name": "doubt"},
		{"code": 4, "name": "sleepy"},
		{"code": 5, "name": "neutral"}
	]`)
}

func (s *CommandTestSuite) TestExpressionsRejectsUnknownFormat() {
	_, err := s.ExecuteCommand("expressions", "--format", "xml")
	s.Assert().ErrorContains(err, "invalid format")
}

func (s *CommandTestSuite) TestEncode() {
	tests := []struct {
		arg  string
		want string
	}{
		{arg: "450", want: "C2 01\n"},
		{arg: "0", want: "00 00\n"},
		{arg: "65535", want: "FF FF\n"},
		{arg: "4660", want: "34 12\n"},
	}

	for _, tt := range tests {
		s.Run(tt.arg, func() {
			out, err := s.ExecuteCommand("encode", tt.arg)
			s.Require().NoError(err)
			s.Assert().Equal(tt.want, out)
		})
	}
}

func (s *CommandTestSuite) TestEncodeRejectsOutOfRange() {
	for _, arg := range []string{"65536", "near", "4.5"} {
		s.Run(arg, func() {
			_, err := s.ExecuteCommand("encode", arg)
			s.Assert().ErrorIs(err, ErrInvalidDistance, "%q MUST be rejected", arg)
		})
	}
}

func TestCommandTestSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func TestConfigureLogger(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		config  string
		want    logrus.Level
		wantErr bool
	}{
		{name: "flag wins over config", flag: "debug", config: "log_level: error", want: logrus.DebugLevel},
		{name: "config used without flag", config: "log_level: warn", want: logrus.WarnLevel},
		{name: "config accepts warning alias", config: "log_level: warning", want: logrus.WarnLevel},
		{name: "config accepts trace", config: "log_level: trace", want: logrus.TraceLevel},
		{name: "flag accepts fatal", flag: "fatal", want: logrus.FatalLevel},
		{name: "info when nothing set", want: logrus.InfoLevel},
		{name: "rejects unknown flag value", flag: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.Flags().String("log-level", "", "")
			if tt.flag != "" {
				require.NoError(t, cmd.Flags().Set("log-level", tt.flag))
			}

			// every level the config accepts MUST also build a logger
			cfg := config.DefaultConfig()
			require.NoError(t, config.Parse([]byte(tt.config), cfg))

			logger, err := configureLogger(cmd, cfg)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid log level")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
			formatter, ok := logger.Formatter.(*logrus.TextFormatter)
			require.True(t, ok)
			assert.Equal(t, time.RFC3339, formatter.TimestampFormat)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	halted := fmt.Errorf("%w: %w", avatar.ErrHalted,
		fmt.Errorf("exit start: %w", &avatar.BringUpError{Component: "VL53L0X", Err: errors.New("no ack")}))

	assert.Equal(t, "", FormatUserError(nil))
	assert.Equal(t, "failed to boot VL53L0X: no ack (device halted)", FormatUserError(halted))
	assert.Contains(t, FormatUserError(fmt.Errorf("%w: hci0", link.ErrUnsupported)), "--radio loopback")
	assert.Equal(t, "plain", FormatUserError(errors.New("plain")))
}

func TestApplyFlags(t *testing.T) {
	t.Cleanup(func() {
		runRadio, runName, runFailBoot, runNoColor = config.RadioHCI, "", false, false
	})

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&runRadio, "radio", config.RadioHCI, "")
	cmd.Flags().StringVar(&runName, "name", "", "")
	cmd.Flags().BoolVar(&runFailBoot, "fail-boot", false, "")
	cmd.Flags().BoolVar(&runNoColor, "no-color", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--radio", "loopback", "--fail-boot", "--no-color"}))

	cfg := config.DefaultConfig()
	cfg.DeviceName = "FromFile"
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, config.RadioLoopback, cfg.Radio)
	assert.True(t, cfg.Sensor.FailBoot)
	assert.False(t, cfg.Face.Color)
	assert.Equal(t, "FromFile", cfg.DeviceName, "unset flags MUST NOT override the config")

	require.NoError(t, cmd.Flags().Set("radio", "wifi"))
	cfg.Radio = ""
	assert.ErrorContains(t, applyFlags(cmd, cfg), "unknown radio")
}
