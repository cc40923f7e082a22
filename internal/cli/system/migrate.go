package system

import (
	"fmt"

	"github.com/julianstephens/habitify/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	count, err := ctx.Store.Migrate(func(msg string) {
		fmt.Println(cli.Detail("%s", msg))
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println(cli.OK("No migrations to apply. Database is up to date."))
	} else {
		fmt.Println(cli.OK("Successfully applied %d migration(s).", count))
	}
	return nil
}
