package contentd

// Command is one operation of the server binary.
type Command interface {
	// Name returns the sub-command name.
	Name() string
}

// MigrateCommand creates or updates the storage schema.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand serves the HTTP API until the context is done.
type RunCommand struct{}

func (c *RunCommand) Name() string {
	return "run"
}

// DumpCommand writes every stored record to Path, or to stdout when Path is
// empty or "-".
type DumpCommand struct {
	Path string
}

func (c *DumpCommand) Name() string {
	return "dump"
}

// RestoreCommand loads a dump from Path into the configured backend.
type RestoreCommand struct {
	Path         string
	SkipExisting bool
}

func (c *RestoreCommand) Name() string {
	return "restore"
}
