package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/simplebt/internal/core/npc"
)

var brainsCmd = &cobra.Command{
	Use:   "brains",
	Short: "List the available brains",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, b := range npc.Brains() {
			fmt.Fprintln(cmd.OutOrStdout(), b)
		}
	},
}

func init() {
	rootCmd.AddCommand(brainsCmd)
}
