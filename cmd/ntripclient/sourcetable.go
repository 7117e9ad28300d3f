package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bedrocksolutions/ntripgo/ntrip"
)

var sourcetableCmd = &cobra.Command{
	Use:   "sourcetable <url>",
	Short: "fetch and print a caster's sourcetable",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcetable,
}

func init() {
	rootCmd.AddCommand(sourcetableCmd)
}

func runSourcetable(cmd *cobra.Command, args []string) error {
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

	lines, err := session.RequestSourcetable(*endpoint)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
