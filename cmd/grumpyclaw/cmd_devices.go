package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/console"
	"github.com/kifhan/grumpyclaw/internal/probe"
)

var meterSeconds float64

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.AddCommand(devicesStatusCmd, devicesSpeakerCmd, devicesMicCmd, devicesCameraCmd, devicesToneCmd, devicesMeterCmd)
	devicesMeterCmd.Flags().Float64Var(&meterSeconds, "seconds", 5, "how long to run the meter")
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Device diagnostics, local and remote",
}

func newDevices(a *app) *console.DevicesController {
	c := console.NewDevicesController(a.client, a.renderer, nil, os.Stdout)
	c.LocalMic = probe.NoiseMic{}
	c.LocalSpeaker = probe.BellSpeaker{Out: os.Stdout}
	return c
}

var devicesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the robot's audio device inventory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDevices(newApp()).Status(cmd.Context())
	},
}

var devicesSpeakerCmd = &cobra.Command{
	Use:   "speaker",
	Short: "Test the robot's speaker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDevices(newApp()).TestSpeaker(cmd.Context())
	},
}

var devicesMicCmd = &cobra.Command{
	Use:   "mic",
	Short: "Test the robot's microphone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDevices(newApp()).TestMic(cmd.Context())
	},
}

var devicesCameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "Check the robot's camera",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDevices(newApp()).CheckCamera(cmd.Context())
	},
}

var devicesToneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Play a test tone on the local speaker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		duration := time.Duration(a.cfg.Devices.ToneSeconds * float64(time.Second))
		return newDevices(a).ToneLocal(cmd.Context(), duration)
	},
}

var devicesMeterCmd = &cobra.Command{
	Use:   "meter",
	Short: "Run the local microphone level meter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		duration := time.Duration(meterSeconds * float64(time.Second))
		return newDevices(newApp()).MeterMic(cmd.Context(), duration)
	},
}
