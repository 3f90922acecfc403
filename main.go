package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/wifimgr/wifimgr/internal/config"
	wifilog "github.com/wifimgr/wifimgr/internal/log"
	"github.com/wifimgr/wifimgr/internal/tui"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		rootFlagSet = flag.NewFlagSet("wifimgr", flag.ExitOnError)
		flags       = config.BindFlags(rootFlagSet)
		version     = rootFlagSet.Bool("version", false, "display version")
	)

	// a is set once flags are parsed, before any Exec runs.
	var a *app

	listFlagSet := flag.NewFlagSet("list", flag.ExitOnError)
	listJSON := listFlagSet.Bool("json", false, "output in JSON format")
	listCmd := &ffcli.Command{
		Name:      "list",
		ShortHelp: "Scan and list visible networks",
		FlagSet:   listFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			adapter, err := a.wifiAdapter()
			if err != nil {
				return err
			}
			return runList(os.Stdout, *listJSON, adapter)
		},
	}

	networksCmd := &ffcli.Command{
		Name:      "networks",
		ShortHelp: "List saved networks",
		FlagSet:   flag.NewFlagSet("networks", flag.ExitOnError),
		Exec: func(ctx context.Context, args []string) error {
			return runNetworks(os.Stdout, a.store)
		},
	}

	addFlagSet := flag.NewFlagSet("add", flag.ExitOnError)
	addPassword := addFlagSet.String("password", "", "password for the network")
	addCmd := &ffcli.Command{
		Name:       "add",
		ShortUsage: "wifimgr add [-password <pw>] <ssid>",
		ShortHelp:  "Save a network",
		FlagSet:    addFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("add requires exactly one ssid")
			}
			return runAdd(os.Stdout, a.store, args[0], *addPassword)
		},
	}

	forgetCmd := &ffcli.Command{
		Name:       "forget",
		ShortUsage: "wifimgr forget <ssid>...",
		ShortHelp:  "Remove saved networks",
		FlagSet:    flag.NewFlagSet("forget", flag.ExitOnError),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("forget requires at least one ssid")
			}
			return runForget(os.Stdout, a.store, args)
		},
	}

	apFlagSet := flag.NewFlagSet("ap", flag.ExitOnError)
	apStart := apFlagSet.Bool("start", false, "start the access point")
	apCmd := &ffcli.Command{
		Name:      "ap",
		ShortHelp: "Show the fallback access point and its join QR code",
		FlagSet:   apFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if !*apStart {
				return runAccessPoint(os.Stdout, a.cfg.APPrefix, a.cfg.APPassword, a.deviceID, nil)
			}
			m, err := a.manager()
			if err != nil {
				return err
			}
			return runAccessPoint(os.Stdout, a.cfg.APPrefix, a.cfg.APPassword, a.deviceID, m)
		},
	}

	seenFlagSet := flag.NewFlagSet("seen", flag.ExitOnError)
	seenWithin := seenFlagSet.Duration("within", 24*time.Hour, "show access points seen within this long")
	seenPrune := seenFlagSet.Duration("prune", 0, "first delete sightings older than this")
	seenCmd := &ffcli.Command{
		Name:      "seen",
		ShortHelp: "Show access points recorded by background scans",
		FlagSet:   seenFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			return runSeen(ctx, os.Stdout, a.sightings, *seenWithin, *seenPrune, time.Now())
		},
	}

	root := &ffcli.Command{
		ShortUsage:  "wifimgr [flags] <subcommand> [args...]",
		ShortHelp:   "Join a saved network, or open the configuration screen",
		FlagSet:     rootFlagSet,
		Options:     []ff.Option{ff.WithEnvVarPrefix("WIFIMGR")},
		Subcommands: []*ffcli.Command{listCmd, networksCmd, addCmd, forgetCmd, apCmd, seenCmd},
		Exec: func(ctx context.Context, args []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}
			return runConnect(ctx, os.Stdout, m, tui.NewSurface())
		},
	}

	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		return 1
	}

	if *version {
		fmt.Println(Version)
		return 0
	}

	cfg, err := config.Load(flags.Config)
	if err == nil {
		err = config.ApplyFlags(cfg, flags)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger := wifilog.Init(os.Stderr, cfg.LogLevel)

	if err := loadTheme(cfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
		return 1
	}

	a, err = newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func loadTheme(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tui.LoadTheme(f)
}
