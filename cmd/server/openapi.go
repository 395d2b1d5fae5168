package main

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document without starting the server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		srv, err := newServer(cfg, log, nil)
		if err != nil {
			return err
		}
		raw, err := srv.Docs().JSON()
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		_, err = cmd.OutOrStdout().Write(out.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)
}
