package cmd

import (
	"fmt"

	"github.com/solmint-labs/solmint/common"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show solmint version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println(common.Version)
			return nil
		},
	}
}
