package main

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/nestedsafe"
	"github.com/iov-one/nestedsafe/crypto"
	"github.com/iov-one/nestedsafe/errors"
	"github.com/iov-one/nestedsafe/x/sigs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bech32Prefix is the human readable part of printed addresses.
const bech32Prefix = "safe"

// keyFile is the content of a member key file.
type keyFile struct {
	PrivateKey *crypto.PrivateKey `json:"private_key"`
	PublicKey  *crypto.PublicKey  `json:"public_key"`
	Address    nestedsafe.Address `json:"address"`
	Bech32     string             `json:"bech32"`
}

func newKeyFile(priv *crypto.PrivateKey) (*keyFile, error) {
	pub := priv.PublicKey()
	if pub == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	addr := pub.Address()
	b32, err := addr.Bech32(bech32Prefix)
	if err != nil {
		return nil, err
	}
	return &keyFile{
		PrivateKey: priv,
		PublicKey:  pub,
		Address:    addr,
		Bech32:     b32,
	}, nil
}

func newKeygenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a member key",
		Long: `Create a member key and print it as JSON.

An ed25519 key can be derived from a hex encoded seed with a SLIP-0010
path, for example m/44'/234'/0'. Without a seed the key is random.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := generateKey(
				v.GetString(key(cmd, "algo")),
				v.GetString(key(cmd, "seed")),
				v.GetString(key(cmd, "path")),
			)
			if err != nil {
				return err
			}
			kf, err := newKeyFile(priv)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), kf)
		},
	}
	cmd.Flags().String("algo", "ed25519", "ed25519 or secp256k1")
	cmd.Flags().String("seed", "", "hex encoded seed to derive an ed25519 key from")
	cmd.Flags().String("path", "m/44'/234'/0'", "derivation path used with a seed")
	bindFlags(v, cmd, "algo", "seed", "path")
	return cmd
}

func generateKey(algo, seed, path string) (*crypto.PrivateKey, error) {
	switch algo {
	case "ed25519":
		if seed == "" {
			return crypto.GenPrivKeyEd25519(), nil
		}
		raw, err := hex.DecodeString(seed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "seed must be hex encoded")
		}
		return crypto.DeriveEd25519(raw, path)
	case "secp256k1":
		if seed != "" {
			return nil, errors.Wrap(errors.ErrInput, "only ed25519 keys can be derived")
		}
		return crypto.GenPrivKeySecp256k1(), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown algorithm %q", algo)
	}
}

func newSignCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a transaction hash with a member key",
		RunE: func(cmd *cobra.Command, args []string) error {
			var kf keyFile
			if err := readJSON(v.GetString(key(cmd, "key")), &kf); err != nil {
				return errors.Wrap(err, "key")
			}
			if kf.PrivateKey == nil {
				return errors.Wrap(errors.ErrEmpty, "key file without a private key")
			}
			hash, err := decodeHash(v.GetString(key(cmd, "hash")))
			if err != nil {
				return err
			}
			sig, err := sigs.Sign(kf.PrivateKey, hash)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sig)
		},
	}
	cmd.Flags().String("key", "", "key file created with keygen")
	cmd.Flags().String("hash", "", "hex encoded hash to sign")
	bindFlags(v, cmd, "key", "hash")
	return cmd
}

func newVerifyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature and print the address of the signer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sig sigs.StdSignature
			if err := readJSON(v.GetString(key(cmd, "signature")), &sig); err != nil {
				return errors.Wrap(err, "signature")
			}
			hash, err := decodeHash(v.GetString(key(cmd, "hash")))
			if err != nil {
				return err
			}
			cond, err := sigs.VerifySignature(&sig, hash)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cond.Address())
			return nil
		},
	}
	cmd.Flags().String("signature", "", "signature file created with sign")
	cmd.Flags().String("hash", "", "hex encoded hash the signature is for")
	bindFlags(v, cmd, "signature", "hash")
	return cmd
}

func decodeHash(s string) ([]byte, error) {
	hash, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "hash must be hex encoded")
	}
	if len(hash) != sigs.HashLength {
		return nil, errors.Wrapf(errors.ErrInput, "hash must be %d bytes", sigs.HashLength)
	}
	return hash, nil
}
