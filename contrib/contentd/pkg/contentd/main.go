package contentd

import (
	"context"
	"fmt"
	"os"
)

// Main parses args and runs the selected command.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case *DumpCommand:
		if err := app.Dump(ctx, c, os.Stdout); err != nil {
			return fmt.Errorf("dump failed: %w", err)
		}
	case *RestoreCommand:
		if err := app.Restore(ctx, c, os.Stdin); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
