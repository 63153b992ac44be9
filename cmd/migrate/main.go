// Command migrate manages the credit database schema.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/creditline/backend/internal/infrastructure/config"
	"github.com/creditline/backend/internal/infrastructure/logger"
	"github.com/creditline/backend/internal/infrastructure/migration"
	"github.com/creditline/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var errUsage = errors.New("invalid usage")

// session is what a command runs against
type session struct {
	log      *zap.Logger
	dir      string
	embedded bool
	migrator *migration.Migrator
}

type command struct {
	args    string
	help    string
	minArgs int
	needsDB bool
	run     func(s *session, args []string) error
}

var commands = map[string]command{
	"up": {help: "Apply all pending migrations", needsDB: true,
		run: func(s *session, _ []string) error { return s.migrator.Up() }},
	"down": {help: "Roll back all migrations", needsDB: true,
		run: func(s *session, _ []string) error { return s.migrator.Down() }},
	"steps": {args: "<n>", help: "Apply n migrations, negative n rolls back", minArgs: 1, needsDB: true,
		run: runSteps},
	"goto": {args: "<version>", help: "Migrate up or down to a version", minArgs: 1, needsDB: true,
		run: runGoTo},
	"version": {help: "Show the applied version", needsDB: true,
		run: runVersion},
	"force": {args: "<version>", help: "Mark a version applied after a failed run", minArgs: 1, needsDB: true,
		run: runForce},
	"drop": {args: "-confirm", help: "Drop every table", needsDB: true,
		run: runDrop},
	"create": {args: "<name> [desc]", help: "Write the next numbered up/down pair", minArgs: 1,
		run: runCreate},
	"list": {help: "List available migrations",
		run: runList},
}

func main() {
	dir := flag.String("path", "", "Migrations directory (default: database.migrations_path)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	embedded := flag.Bool("embedded", false, "Use the schema compiled into the binary instead of -path")
	flag.Usage = printUsage
	flag.Parse()

	if err := run(flag.Args(), *dir, *logLevel, *embedded); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		}
		os.Exit(1)
	}
}

func run(args []string, dir, logLevel string, embedded bool) error {
	if len(args) == 0 {
		return errUsage
	}
	name := args[0]
	if name == "step" {
		name = "steps"
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		return errUsage
	}
	args = args[1:]
	if len(args) < cmd.minArgs {
		fmt.Fprintf(os.Stderr, "usage: migrate %s %s\n", name, cmd.args)
		return errUsage
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", TimeFormat: time.DateTime})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return err
	}
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", zap.Error(err))
		return err
	}
	if dir == "" {
		dir = cfg.Database.MigrationsPath
	}
	if dir, err = filepath.Abs(dir); err != nil {
		log.Error("Invalid migrations path", zap.Error(err))
		return err
	}

	s := &session{log: log, dir: dir, embedded: embedded}
	log.Info("Migration CLI started",
		zap.String("command", name),
		zap.String("migrations_path", dir),
		zap.Bool("embedded", embedded),
	)

	if cmd.needsDB {
		closeDB, err := s.connect(cfg.Database.DSN())
		if err != nil {
			log.Error("Failed to open database", zap.Error(err))
			return err
		}
		defer closeDB()
	}

	if err := cmd.run(s, args); err != nil {
		log.Error("Command failed", zap.String("command", name), zap.Error(err))
		return err
	}
	return nil
}

// connect opens the database and the migrator. The returned func closes
// both; the migrator owns the pool once created.
func (s *session) connect(dsn string) (func(), error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	source := s.dir
	if s.embedded {
		source = ""
	}
	m, err := migration.New(db, source, s.log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.migrator = m
	return func() {
		if err := m.Close(); err != nil {
			s.log.Warn("Error closing migrator", zap.Error(err))
		}
	}, nil
}

func runSteps(s *session, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid step count %q", args[0])
	}
	return s.migrator.Steps(n)
}

func runGoTo(s *session, args []string) error {
	version, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	return s.migrator.GoTo(uint(version))
}

func runVersion(s *session, _ []string) error {
	version, dirty, err := s.migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		s.log.Info("No migrations applied")
		return nil
	}
	s.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func runForce(s *session, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	return s.migrator.Force(version)
}

func runDrop(s *session, args []string) error {
	if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
		return errors.New("drop needs -confirm")
	}
	return s.migrator.Drop()
}

func runCreate(s *session, args []string) error {
	description := strings.Join(args[1:], " ")
	mf, err := migration.CreateMigration(s.dir, args[0], description)
	if err != nil {
		return err
	}
	s.log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func runList(s *session, _ []string) error {
	var (
		entries []migration.Entry
		err     error
	)
	if s.embedded {
		entries, err = migration.ListMigrationsFS(migrations.FS)
	} else {
		entries, err = migration.ListMigrations(s.dir)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.log.Info("No migrations found")
		return nil
	}
	for _, e := range entries {
		fmt.Println("  -", e)
	}
	return nil
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Credit database migration tool\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:\n")
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(&b, "  %-22s %s\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
	b.WriteString("\nFlags:\n")
	fmt.Fprint(os.Stderr, b.String())
	flag.PrintDefaults()
	fmt.Fprint(os.Stderr, `
Environment:
  CREDIT_DATABASE_HOST, CREDIT_DATABASE_PORT, CREDIT_DATABASE_USER,
  CREDIT_DATABASE_PASSWORD, CREDIT_DATABASE_DBNAME, CREDIT_DATABASE_SSLMODE

Examples:
  migrate up
  migrate steps -1
  migrate create add_credit_notes "Free text notes on a credit"
`)
}
