package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"screen-region-capture/src/config"
	"screen-region-capture/src/eventloop"
	"screen-region-capture/src/hotkey"
	"screen-region-capture/src/logutil"
	"screen-region-capture/src/messages"
	"screen-region-capture/src/notification"
	"screen-region-capture/src/overlay"
	"screen-region-capture/src/runtimeinit"
	"screen-region-capture/src/screenshot"
	"screen-region-capture/src/storage"
	"screen-region-capture/src/tray"
	"screen-region-capture/src/trigger"
)

// normalizeArgs maps GNU-style --trigger to Go's -trigger
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 1; i < len(out); i++ {
		switch {
		case out[i] == "--trigger":
			out[i] = "-trigger"
		case strings.HasPrefix(out[i], "--trigger="):
			out[i] = "-trigger" + out[i][len("--trigger"):]
		}
	}
	return out
}

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// The overlay message loop runs on its own locked thread; keep main on
	// a dedicated thread too so tray and window queues never interleave.
	runtime.LockOSThread()

	triggerMode := flag.Bool("trigger", false, "Ask a running instance to start a capture and exit")
	os.Args = normalizeArgs(os.Args)
	flag.Parse()

	// Trigger mode: delegate to the resident over TCP and exit.
	if *triggerMode {
		// Load .env early so TRIGGER_PORT_* are applied before the scan
		_, _ = config.Load()
		delegated, err := trigger.NewClient().TryCapture(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Trigger failed: %v\n", err)
			os.Exit(1)
		}
		if !delegated {
			fmt.Fprintln(os.Stderr, "No running instance found")
			os.Exit(1)
		}
		return
	}

	// Load .env early so TRIGGER_PORT_* are available for pre-flight
	_, _ = config.Load()
	startPort, _ := trigger.PortRange()
	addr := fmt.Sprintf("127.0.0.1:%d", startPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("Pre-flight: port %d busy, resident already exists", startPort)
		fmt.Printf("one is already running on port %d\n", startPort)
		os.Exit(1)
	}
	// We claimed the port; release it so the trigger server can re-bind.
	_ = listener.Close()
	log.Printf("Pre-flight: port %d free, we are the resident", startPort)

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{SetupLogging: logutil.Setup})
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	bounds, err := screenshot.PrimaryBounds()
	if err != nil {
		notification.ShowBlockingError("No display", fmt.Sprintf("Cannot query the primary display: %v", err))
		os.Exit(1)
	}
	log.Printf("Primary display: %dx%d", bounds.Dx(), bounds.Dy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := messages.NewQueue()

	win, err := overlay.New(queue, bounds.Dx(), bounds.Dy())
	if err != nil {
		log.Fatalf("Failed to create overlay: %v", err)
	}
	if err := win.Start(ctx); err != nil {
		log.Fatalf("Failed to start overlay: %v", err)
	}
	defer win.Close()

	hk := hotkey.New(queue)
	if err := hk.Register(); err != nil {
		notification.ShowBlockingError("Hotkey unavailable",
			fmt.Sprintf("Failed to register %s / %s: %v\n\nAnother application may hold the combination.",
				hotkey.CaptureCombo, hotkey.SaveCombo, err))
		os.Exit(1)
	}
	defer hk.Unregister()
	hk.Start(ctx)
	log.Printf("Hotkeys: %s capture, %s save", hotkey.CaptureCombo, hotkey.SaveCombo)

	srv := trigger.NewServer()
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start trigger server: %v", err)
	}
	defer srv.Close()
	log.Printf("Resident listening on 127.0.0.1:%d", srv.Port())

	loop := eventloop.New(eventloop.Config{
		Window: win,
		Saver:  storage.New(cfg.OutputDir, cfg.ImageFormat),
		Server: srv,
		Queue:  queue,
	})

	trayIcon := tray.New(tray.Config{
		HotkeyText: hotkey.CaptureCombo,
		OutputDir:  cfg.OutputDir,
		OnCapture:  func() { loop.TriggerCapture() },
		OnQuit:     cancel,
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("event loop stopped: %v", err)
	}
}
