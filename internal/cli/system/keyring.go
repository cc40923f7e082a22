package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitify/internal/cli"
	"github.com/julianstephens/habitify/internal/config"
	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/keyring"
	"github.com/julianstephens/habitify/internal/storage/postgres"
)

// KeyringSetCmd stores the database connection string in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !config.IsPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here
		fmt.Println(cli.Warn("Connection string contains a password; it will be stored in the encrypted OS keyring."))
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println(cli.OK("Connection string stored in OS keyring"))
	fmt.Println(cli.Detail("Set database.dsn (or HABITIFY_DATABASE_DSN) to %q to use it", constants.KeyringDSN))
	return nil
}

// KeyringGetCmd prints the stored connection string with its password masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habitify keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println(keyring.Mask(connStr))
	return nil
}

// KeyringDeleteCmd removes the connection string from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println(cli.OK("Connection string deleted from OS keyring"))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println(cli.Fail("OS keyring is not available on this system"))
		return errors.New("keyring unavailable")
	}
	fmt.Println(cli.OK("OS keyring is available"))

	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println(cli.OK("Connection string is stored in keyring"))
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println(cli.Detail("No connection string stored in keyring"))
	}
	return nil
}
