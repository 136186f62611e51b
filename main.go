package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"voxtyped/audio"
	"voxtyped/clipboard"
	"voxtyped/config"
	"voxtyped/control"
	"voxtyped/encoder"
	"voxtyped/hotkey"
	"voxtyped/log"
	"voxtyped/output"
	"voxtyped/pidfile"
	"voxtyped/transcriber"
	"voxtyped/tray"
)

var version = "dev"

func main() {
	configFlag := flag.String("config", "", "Config file path (default: XDG config dir)")
	serverFlag := flag.String("server", "", "Transcription service URL")
	outputFlag := flag.String("output", "", "Output mode: clipboard or direct_type")
	formatFlag := flag.String("format", "", "Audio wire format: wav or flac")
	pidFlag := flag.String("pidfile", "", "Pid file path")
	trayFlag := flag.Bool("tray", false, "Show a status tray icon")
	hotkeyFlag := flag.Bool("hotkey", false, "Register Ctrl+Shift+Space as an in-process toggle")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("voxtyped %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log files: %v\n", err)
	}
	defer log.Close()

	cfg, err := loadConfig(*configFlag, *serverFlag, *outputFlag, *formatFlag, *pidFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if pid, err := pidfile.Read(cfg.PidFile); err == nil && pidfile.Alive(pid) {
		fmt.Fprintf(os.Stderr, "Error: another instance is running (pid %d)\n", pid)
		os.Exit(1)
	}

	mode, err := output.ParseMode(cfg.OutputMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	format, err := encoder.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	enc, err := encoder.New(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if mode == output.ModeDirectType {
		if err := clipboard.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: direct typing unavailable (%v), falling back to clipboard\n", err)
			log.Warnf("direct typing unavailable: %v", err)
			mode = output.ModeClipboard
		}
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: audio backend init failed: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	client := transcriber.NewClient(cfg.ServerURL)
	d := NewDaemon(audioCtx, client, output.New(mode), enc, cfg)

	if *trayFlag || cfg.Tray {
		tray.OnToggle(d.Toggle)
		quit := tray.Init()
		go func() {
			<-quit
			d.sendInternal(event{kind: evShutdown})
		}()
		d.onRecording = tray.SetRecording
		d.onError = tray.SetError
		defer tray.Quit()
	}

	if *hotkeyFlag || cfg.Hotkey {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			log.Warnf("hotkey unavailable: %v", err)
		} else {
			defer hk.Unregister()
			go func() {
				for range hk.Pressed() {
					d.Toggle()
				}
			}()
		}
	}

	log.DaemonStart(cfg.ServerURL, string(mode))
	fmt.Printf("voxtyped %s listening for signals (server: %s, pid file: %s)\n", version, cfg.ServerURL, cfg.PidFile)

	probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	d.ProbeHealth(probeCtx)
	cancel()

	if err := d.Run(control.Notify()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers flag overrides on top of the config file on top of
// defaults.
func loadConfig(path, server, outputMode, format, pidPath string) (config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return config.Config{}, err
	}

	if server != "" {
		cfg.ServerURL = server
	}
	if outputMode != "" {
		cfg.OutputMode = outputMode
	}
	if format != "" {
		cfg.Format = format
	}
	if pidPath != "" {
		cfg.PidFile = pidPath
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
