package contentd

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

const usage = `subcommand required

Usage: contentd [flags] <command>

Commands:
  run       Start the content server
  migrate   Create or update the storage schema
  dump      Write all records to a file or stdout
  restore   Load records from a dump file ("-" for stdin)

Examples:
  contentd run                                  # in-memory store, local uploads
  contentd -backend postgres migrate
  contentd -backend surrealdb -port 8090 run
  contentd -storage s3 -s3-bucket site-media run
  contentd -config /etc/contentd.yaml run
  contentd -backend postgres dump site.dump
  contentd -backend surrealdb restore -skip-existing site.dump`

// Parse reads the command and its configuration from args. Settings are
// layered: defaults, the file named by -config (or CONTENTD_CONFIG), the
// environment, then explicitly set flags.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("contentd", flag.ContinueOnError)

	var (
		configPath = flagSet.String("config", os.Getenv("CONTENTD_CONFIG"), "Path to a YAML config file")
		port       = flagSet.String("port", "", "Server port")
		backend    = flagSet.String("backend", "", "Storage backend: memory, postgres or surrealdb")
		storage    = flagSet.String("storage", "", "Upload storage: local or s3")
		uploadDir  = flagSet.String("upload-dir", "", "Directory for local uploads")
		s3Bucket   = flagSet.String("s3-bucket", "", "Bucket for s3 uploads")
		logLevel   = flagSet.String("log-level", "", "Log level: debug, info, warn or error")
		logPretty  = flagSet.Bool("log-pretty", false, "Write human-readable logs")
		readOnly   = flagSet.Bool("read-only", false, "Reject all write operations")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, errors.New(usage)
	}

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "migrate":
		cmd = &MigrateCommand{}
	case "dump":
		c := &DumpCommand{}
		if len(remainingArgs) > 1 {
			c.Path = remainingArgs[1]
		}
		cmd = c
	case "restore":
		c, err := parseRestore(remainingArgs[1:])
		if err != nil {
			return nil, nil, err
		}
		cmd = c
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, migrate, dump, restore", remainingArgs[0])
	}

	config := DefaultConfig()
	if *configPath != "" {
		if err := config.LoadFile(*configPath); err != nil {
			return nil, nil, err
		}
	}
	config.LoadEnv()

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["port"] {
		config.ServerPort = *port
	}
	if set["backend"] {
		config.Backend = *backend
	}
	if set["storage"] {
		config.Storage = *storage
	}
	if set["upload-dir"] {
		config.UploadDir = *uploadDir
	}
	if set["s3-bucket"] {
		config.S3Bucket = *s3Bucket
	}
	if set["log-level"] {
		config.LogLevel = *logLevel
	}
	if set["log-pretty"] {
		config.LogPretty = *logPretty
	}
	if set["read-only"] {
		config.ReadOnly = *readOnly
	}

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	return cmd, config, nil
}

func parseRestore(args []string) (*RestoreCommand, error) {
	flagSet := flag.NewFlagSet("restore", flag.ContinueOnError)
	skipExisting := flagSet.Bool("skip-existing", false, "Skip records whose id is already stored")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() != 1 {
		return nil, errors.New("restore requires exactly one dump file")
	}
	return &RestoreCommand{Path: flagSet.Arg(0), SkipExisting: *skipExisting}, nil
}
