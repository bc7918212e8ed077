// Command pvss runs publicly verifiable secret sharing sessions locally.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	pvss "github.com/MixinNetwork/pvss-go"
	"github.com/MixinNetwork/pvss-go/log"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pvss",
		Short: "Publicly verifiable secret sharing",
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Deal, verify, decrypt and reconstruct a secret among local participants",
		RunE:  simulateMain,
	}

	paramsCmd = &cobra.Command{
		Use:   "params",
		Short: "Print the default generators",
		Run: func(cmd *cobra.Command, args []string) {
			params := pvss.DefaultParameters()
			fmt.Printf("G: %s\n", hex.EncodeToString(params.G.Bytes()))
			fmt.Printf("H: %s\n", hex.EncodeToString(params.H.Bytes()))
		},
	}
)

func init() {
	registerFlags(simulateCmd.Flags())
	rootCmd.AddCommand(simulateCmd, paramsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func simulateMain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	log.Init(cfg.Log.Level, cfg.Log.Output)

	result, err := simulate(cfg)
	if err != nil {
		log.Errorw(err, "simulation failed")
		return err
	}
	if cfg.Output != "" {
		data, err := result.Bundle.MarshalJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("secret·G:   %s\n", hex.EncodeToString(result.Expected.Bytes()))
	fmt.Printf("recovered:  %s\n", hex.EncodeToString(result.Recovered.Bytes()))
	fmt.Printf("secret key: %s\n", hex.EncodeToString(pvss.SecretKey(result.Recovered)))
	return nil
}
