package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"snappick/internal/config"
	"snappick/internal/database"
	"snappick/internal/discovery"
	"snappick/internal/eventbus"
	"snappick/internal/manager"
	"snappick/internal/ui"
)

func main() {
	// Parse command line arguments
	var baseDir string
	flag.StringVar(&baseDir, "dir", "", "Directory to scan for snapshot databases")
	flag.StringVar(&baseDir, "d", "", "Directory to scan for snapshot databases (shorthand)")
	flag.Parse()

	// If no directory specified, check for remaining args
	if baseDir == "" && flag.NArg() > 0 {
		baseDir = flag.Arg(0)
	}

	// Set up logging
	logFile, err := os.OpenFile("snappick.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	if baseDir != "" {
		absDir, err := filepath.Abs(baseDir)
		if err != nil {
			fmt.Printf("Error resolving path: %v\n", err)
			os.Exit(1)
		}
		cfg.BaseDir = absDir
	}

	// Set up event forwarding to UI. The channel is buffered and wired
	// before the manager restores the persisted selection, so restore-time
	// errors and warnings are held until the program drains them.
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	unsubscribe := wireEventForwarding(bus, forward)

	// Restore the persisted selection and build the registry
	mgr := manager.New(bus, configSvc, cfg)

	// Initialize discovery (subscribes to scan requests automatically)
	discoverySvc := discovery.NewDiscoveryService(bus)

	// Register discovered snapshots without changing the current selection
	bus.Subscribe(eventbus.EventDatabaseDiscovered, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DatabaseDiscoveredEvent); ok {
			d, err := database.New(event.SnapshotRoot, bus)
			if err != nil {
				log.Printf("Skipping discovered snapshot %s: %v", event.SnapshotRoot, err)
				return
			}
			mgr.Registry().Add(d)
		}
	})

	// Create UI model
	uiModel := ui.NewModel(bus, mgr, cfg)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Start initial scan
	if cfg.UISettings.AutoScanOnOpen && cfg.BaseDir != "" {
		go discoverySvc.StartScan(ctx, []string{cfg.BaseDir})
	}

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup: detach the forwarders before closing the channel so a
	// straggling background publish cannot hit a closed channel
	unsubscribe()
	close(eventChan)
	cancel()
}

// wireEventForwarding subscribes forward to every event type the UI renders
// and returns a closure that removes all of the subscriptions. It must be
// called before state is restored so that startup errors reach the user.
func wireEventForwarding(bus eventbus.EventBus, forward eventbus.EventHandler) func() {
	unsubs := make([]func(), 0, 7)
	for _, t := range []eventbus.EventType{
		eventbus.EventDatabaseAdded,
		eventbus.EventSelectionChanged,
		eventbus.EventSourceRootResolved,
		eventbus.EventWarning,
		eventbus.EventError,
		eventbus.EventScanStarted,
		eventbus.EventScanCompleted,
	} {
		unsubs = append(unsubs, bus.Subscribe(t, forward))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
