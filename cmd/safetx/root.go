package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/iov-one/nestedsafe/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SAFETX"

// newRootCmd returns the root command with all subcommands. Each call
// returns an independent tree with its own configuration.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "safetx",
		Short:         "Nested safe transaction tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("chain-id", "", "chain the transactions are for")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, error or none")
	v.BindPFlag("chain-id", root.PersistentFlags().Lookup("chain-id"))
	v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newHashCmd(v),
		newEncodeCmd(v),
		newKeygenCmd(v),
		newSignCmd(v),
		newVerifyCmd(v),
		newGenesisCmd(v),
		newVersionCmd(),
	)
	return root
}

// bindFlags makes local flags of the command readable through viper under
// "<command>.<flag>", so SAFETX_HASH_NONCE sets the nonce flag of hash.
func bindFlags(v *viper.Viper, cmd *cobra.Command, names ...string) {
	for _, n := range names {
		v.BindPFlag(key(cmd, n), cmd.Flags().Lookup(n))
	}
}

func key(cmd *cobra.Command, flag string) string {
	return cmd.Name() + "." + flag
}

func readJSON(path string, dest interface{}) error {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s: %s", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, obj interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(obj)
}
