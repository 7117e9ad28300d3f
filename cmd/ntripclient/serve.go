package main

import (
	"bufio"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/bedrocksolutions/ntripgo/framer"
	"github.com/bedrocksolutions/ntripgo/ntrip"
	"github.com/bedrocksolutions/ntripgo/rtcm3"
)

var serveCmd = &cobra.Command{
	Use:   "serve <url>",
	Short: "publish RTCM3 frames read from stdin to a caster as a reference station",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(mountpoints) != 1 {
		return errors.New("ntripclient: serve requires exactly one --mountpoint")
	}
	if user == "" && passwd == "" {
		return errors.New("ntripclient: serve requires --user/--passwd")
	}

	endpoint, err := ntrip.ParseCasterEndpoint(args[0])
	if err != nil {
		return err
	}

	logger := newLogger()
	session := ntrip.NewSession(logger)
	if err := session.Connect(cmd.Context(), *endpoint); err != nil {
		os.Exit(exitConnectionRefused)
	}
	defer session.Close()

	creds := ntrip.Credentials{User: user, Password: passwd}
	version := 2
	if ntripVersion1 {
		version = 1
	}
	if err := session.RequestNtripServer(*endpoint, mountpoints[0], creds, version); err != nil {
		return err
	}

	reader := bufio.NewReaderSize(os.Stdin, 4096)
	fr := framer.New(reader, logger)
	for {
		frame, err := fr.NextFrame()
		if err != nil {
			return nil
		}
		if _, decodeErr := rtcm3.Decode(frame[3 : len(frame)-3]); decodeErr != nil {
			logger.Warn("skipping undecodable frame from stdin", "error", decodeErr)
			continue
		}
		if err := session.SendFrame(frame); err != nil {
			return err
		}
	}
}
