package main

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/batch"
	"github.com/iov-one/nestedsafe/x/sigs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHashCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the hash a safe transaction is authorized with",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := loadPayload(v, cmd)
			if err != nil {
				return err
			}
			hash, err := payload.Hash()
			if err != nil {
				return err
			}
			if v.GetBool(key(cmd, "sign-bytes")) {
				raw, err := payload.SignBytes()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(hash))
			return nil
		},
	}
	cmd.Flags().String("batch", "", "JSON file with the call batch, - for stdin")
	cmd.Flags().String("safe", "", "address of the executing safe")
	cmd.Flags().Int64("nonce", 0, "current nonce of the safe")
	cmd.Flags().Bool("sign-bytes", false, "print the encoded payload before the hash")
	bindFlags(v, cmd, "batch", "safe", "nonce", "sign-bytes")
	return cmd
}

// loadPayload builds the signing payload from configuration.
func loadPayload(v *viper.Viper, cmd *cobra.Command) (*sigs.SigningPayload, error) {
	var b batch.CallBatch
	if err := readJSON(v.GetString(key(cmd, "batch")), &b); err != nil {
		return nil, errors.Wrap(err, "batch")
	}
	safe, err := nestedsafe.ParseAddress(v.GetString(key(cmd, "safe")))
	if err != nil {
		return nil, errors.Wrap(err, "safe")
	}
	payload := &sigs.SigningPayload{
		ChainID: v.GetString("chain-id"),
		Safe:    safe,
		Nonce:   v.GetInt64(key(cmd, "nonce")),
		Batch:   &b,
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

func newEncodeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the call batch in the Multicall3 aggregate3Value encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			var b batch.CallBatch
			if err := readJSON(v.GetString(key(cmd, "batch")), &b); err != nil {
				return err
			}
			raw, err := b.Encode()
			if err != nil {
				return err
			}
			total, err := b.TotalValue()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
			fmt.Fprintf(cmd.ErrOrStderr(), "%d calls, total value %d\n", len(b.Calls), total)
			return nil
		},
	}
	cmd.Flags().String("batch", "", "JSON file with the call batch, - for stdin")
	bindFlags(v, cmd, "batch")
	return cmd
}
