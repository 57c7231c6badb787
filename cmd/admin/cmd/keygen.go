package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"credvault/internal/crypto"
)

var fromPassphrase bool

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a server encryption key",
	Long: `Generates a 32-byte AES-256 key and prints it hex encoded, ready for
the ENCRYPTION_KEY environment variable. With --passphrase the key is
derived from an operator passphrase instead, which reproduces the key
the server would derive from ENCRYPTION_PASSPHRASE.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		var key []byte
		if fromPassphrase {
			pass, err := readPassphrase()
			if err != nil {
				return err
			}
			key = crypto.KeyFromPassphrase(pass)
		} else {
			key = make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
		}

		color.Green("ENCRYPTION_KEY=%s", hex.EncodeToString(key))
		return nil
	},
}

func readPassphrase() (string, error) {
	fmt.Print("Passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	fmt.Println()

	fmt.Print("Repeat passphrase: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	fmt.Println()

	if string(pass) != string(confirm) {
		return "", fmt.Errorf("passphrases do not match")
	}
	if len(pass) < 8 {
		return "", fmt.Errorf("passphrase must be at least 8 characters")
	}

	return string(pass), nil
}

func init() {
	keygenCmd.Flags().BoolVar(&fromPassphrase, "passphrase", false, "derive the key from a passphrase instead of random bytes")
}
