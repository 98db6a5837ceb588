package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jessevdk/go-flags"

	"auraclick/config"
	"auraclick/logging"
	"auraclick/platform"
	"auraclick/storage"
	"auraclick/systray"
	"auraclick/web"
)

var version = "dev"

type options struct {
	Config    string `short:"c" long:"config" description:"Path to the configuration file" value-name:"<file>"`
	LogFile   string `long:"log-file" description:"Path to the rotating log file" value-name:"<file>"`
	WebAddr   string `long:"web-addr" default:"127.0.0.1:8590" description:"Dashboard listen address"`
	NoWeb     bool   `long:"no-web" description:"Disable the web dashboard"`
	NoTray    bool   `long:"no-tray" description:"Run headless without the system tray"`
	Debug     bool   `long:"debug" description:"Enable debug logging"`
	Autostart string `long:"autostart" choice:"enable" choice:"disable" choice:"status" description:"Manage launch-on-login registration and exit"`
	Version   bool   `short:"v" long:"version" description:"Show the program version"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println("auraclick", version)
		return
	}

	if opts.Autostart != "" {
		if err := runAutostart(opts.Autostart); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	configPath := opts.Config
	if configPath == "" {
		configPath, err = config.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logPath := opts.LogFile
	if logPath == "" {
		logPath = filepath.Join(dir, "auraclick.log")
	}

	// Setup logging
	var broadcaster *logging.Broadcaster
	if !opts.NoWeb {
		broadcaster = logging.NewBroadcaster()
	}
	logging.Setup(logPath, broadcaster, opts.Debug)

	// Load configuration
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err, "path", configPath)
		os.Exit(1)
	}
	slog.Info("Configuration loaded", "path", configPath, "hotkeys", len(cfg.Hotkeys))

	db, err := storage.Open(dir)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles, err := config.NewProfileManager(filepath.Join(dir, "profiles"), configPath)
	if err != nil {
		slog.Error("Failed to set up profiles", "error", err)
		os.Exit(1)
	}

	agent := NewAgent(configPath, cfg, db, profiles)

	webURL := ""
	if !opts.NoWeb {
		srv := web.NewServer(agent, db, opts.WebAddr, broadcaster)
		agent.SetWebServer(srv)
		webURL = fmt.Sprintf("http://%s", opts.WebAddr)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("Web server error", "error", err)
			}
		}()
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.NoTray {
		if err := agent.Run(ctx); err != nil {
			slog.Error("Agent error", "error", err)
			os.Exit(1)
		}
		slog.Info("AuraClick stopped")
		return
	}

	tray := systray.NewManager(agent, webURL, nil)
	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
	}()
	go func() {
		if err := agent.Run(ctx); err != nil {
			slog.Error("Agent error", "error", err)
		}
		tray.Stop()
	}()

	tray.Run()
	slog.Info("AuraClick stopped")
}

func runAutostart(action string) error {
	auto := platform.NewAutostart()
	switch action {
	case "enable":
		if err := auto.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		fmt.Println("autostart enabled")
	case "disable":
		if err := auto.Disable(); err != nil {
			return fmt.Errorf("failed to disable autostart: %w", err)
		}
		fmt.Println("autostart disabled")
	case "status":
		if auto.IsEnabled() {
			fmt.Println("autostart enabled")
		} else {
			fmt.Println("autostart disabled")
		}
	}
	return nil
}
