package main

import (
	"fmt"

	"github.com/iov-one/nestedsafe/app"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/store/iavl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGenesisCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis <file>",
		Short: "Load a genesis into a new environment and print the state hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			if id := v.GetString("chain-id"); id != "" && id != gen.ChainID {
				return errors.Wrapf(errors.ErrInput, "genesis is for chain %q", gen.ChainID)
			}
			logger, err := app.NewLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
			if err != nil {
				return err
			}
			db, err := iavl.NewCommitStore(v.GetString(key(cmd, "home")), "state")
			if err != nil {
				return err
			}
			env, err := app.NewEnvironment(db, logger)
			if err != nil {
				return err
			}
			if err := env.InitGenesis(gen); err != nil {
				return err
			}
			info, err := env.CommitInfo()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d %X\n", env.ChainID(), info.Version, info.Hash)
			return nil
		},
	}
	cmd.Flags().String("home", "", "directory to persist the state in, memory if empty")
	bindFlags(v, cmd, "home")
	return cmd
}
