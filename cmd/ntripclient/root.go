// Package main implements ntripclient, a command-line tool for talking to
// an NTRIP caster: listing its sourcetable, pulling a mountpoint's RTCM3
// stream, or publishing one as a reference station. Built on
// github.com/spf13/cobra, grounded on the subcommand-per-file layout used
// throughout facebook-time's cmd packages (calnex/cmd, ptpcheck/cmd).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes returned by the stream subcommand on termination.
const (
	exitConnectionRefused  = 1
	exitReconnectExhausted = 2
	exitSIGINT             = 3
	exitSIGTERM            = 4
)

var (
	mountpoints    []string
	user           string
	passwd         string
	serverMode     bool
	ntripVersion1  bool
	logFile        string
	verbosity      int
	configFile     string
	retryThreshold int
	gga            string
)

var rootCmd = &cobra.Command{
	Use:   "ntripclient <url>",
	Short: "connect to an NTRIP caster",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&mountpoints, "mountpoint", "m", nil, "mountpoint to request (repeatable)")
	pf.StringVarP(&user, "user", "u", "", "caster username")
	pf.StringVarP(&passwd, "passwd", "p", "", "caster password")
	pf.BoolVarP(&serverMode, "server", "s", false, "publish as a reference station instead of pulling a stream")
	pf.BoolVarP(&ntripVersion1, "ntrip1", "1", false, "use NTRIP v1 semantics")
	pf.StringVarP(&logFile, "logfile", "l", "", "raw RTCM3 capture directory (daily rotating)")
	pf.CountVarP(&verbosity, "verbosity", "v", "increase log verbosity (repeatable)")
	pf.StringVarP(&configFile, "config", "c", "", "optional JSON config file")
	pf.IntVar(&retryThreshold, "retry", 0, "reconnect attempts before linear backoff kicks in (default 5)")
	pf.StringVar(&gga, "gga", "", "NMEA GGA line to forward to the caster")
}

func newLogger() *slog.Logger {
	level := slog.LevelError
	switch {
	case verbosity >= 3:
		level = slog.LevelDebug
	case verbosity == 2:
		level = slog.LevelInfo
	case verbosity == 1:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConnectionRefused)
	}
}
