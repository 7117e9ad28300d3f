package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bedrocksolutions/ntripgo/internal/config"
	"github.com/bedrocksolutions/ntripgo/internal/rotatelog"
	"github.com/bedrocksolutions/ntripgo/ntrip"
	"github.com/bedrocksolutions/ntripgo/rtcm3"
	"github.com/bedrocksolutions/ntripgo/supervisor"
)

var streamCmd = &cobra.Command{
	Use:   "stream <url>",
	Short: "pull one or more mountpoints' RTCM3 streams and print decoded messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	}

	endpoint, err := ntrip.ParseCasterEndpoint(args[0])
	if err != nil {
		return err
	}

	effectiveMountpoints := cfg.EffectiveMountpoints(mountpoints)
	if len(effectiveMountpoints) == 0 {
		return errors.New("ntripclient: at least one --mountpoint is required")
	}

	var creds *ntrip.Credentials
	effectiveUser := cfg.EffectiveUser(user)
	effectivePasswd := cfg.EffectivePassword(passwd)
	if effectiveUser != "" || effectivePasswd != "" {
		creds = &ntrip.Credentials{User: effectiveUser, Password: effectivePasswd}
	}

	logger := newLogger()

	var captureWriter *rotatelog.Writer
	if effectiveLogFile := cfg.EffectiveLogFile(logFile); effectiveLogFile != "" {
		captureWriter, err = rotatelog.New(effectiveLogFile, "rtcm3")
		if err != nil {
			return err
		}
		defer captureWriter.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	signalExitCode := make(chan int, 1)
	go func() {
		sig := <-sigCh
		if sig == syscall.SIGTERM {
			signalExitCode <- exitSIGTERM
		} else {
			signalExitCode <- exitSIGINT
		}
		cancel()
	}()

	onFrame := func(mountpoint string, msg *rtcm3.DecodedMessage) {
		fmt.Printf("%s: %s\n", mountpoint, msg.Description())
	}

	s := supervisor.New(logger, onFrame)
	s.RetryThreshold = cfg.EffectiveRetryThreshold(retryThreshold)
	if captureWriter != nil {
		s.OnRawFrame = func(_ string, frame []byte) { captureWriter.Write(frame) }
	}

	effectiveGGA := cfg.EffectiveGGA(gga)
	targets := make([]supervisor.Target, len(effectiveMountpoints))
	for i, mp := range effectiveMountpoints {
		targets[i] = supervisor.Target{
			Endpoint:    *endpoint,
			Mountpoint:  mp,
			Credentials: creds,
			GGA:         effectiveGGA,
		}
	}

	runErr := s.Run(ctx, targets)

	select {
	case code := <-signalExitCode:
		os.Exit(code)
	default:
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, supervisor.ErrConnectionRefused):
		os.Exit(exitConnectionRefused)
	default:
		os.Exit(exitReconnectExhausted)
	}
	return nil
}
