package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"snappick/internal/database"
	"snappick/internal/eventbus"
)

// DiscoveryService finds snapshot directories in the filesystem
type DiscoveryService interface {
	StartScan(ctx context.Context, roots []string) error
	StopScan()
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus        eventbus.EventBus
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus) DiscoveryService {
	ds := &discoveryService{
		bus: bus,
	}

	// Subscribe to scan requests
	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			go ds.StartScan(context.Background(), event.Paths)
		}
	})

	return ds
}

// StartScan starts scanning for snapshot directories
func (ds *discoveryService) StartScan(ctx context.Context, roots []string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Paths: roots})

	found := 0

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			ds.mu.Unlock()

			ds.bus.Publish(eventbus.ScanCompletedEvent{DatabasesFound: found})
		}()

		for _, root := range roots {
			select {
			case <-scanCtx.Done():
				return
			default:
				found += ds.scanDirectory(scanCtx, root)
			}
		}
	}()

	return nil
}

// StopScan stops any ongoing scan
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

// scanDirectory walks a directory tree looking for snapshot directories,
// i.e. directories with a db-* child. Each snapshot root is reported once.
func (ds *discoveryService) scanDirectory(ctx context.Context, root string) int {
	found := 0
	maxDepth := 5 // Maximum depth to scan
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Skip on error
		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil // Continue walking
		}

		if !d.IsDir() {
			return nil
		}

		// Check depth limit
		relPath, _ := filepath.Rel(root, path)
		depth := strings.Count(relPath, string(filepath.Separator))
		if depth > maxDepth {
			return filepath.SkipDir
		}

		dirName := d.Name()

		// A db-* child marks its parent as a snapshot directory
		if strings.HasPrefix(dirName, database.DirPrefix) {
			snapshotRoot := filepath.Dir(path)
			if !seen[snapshotRoot] {
				seen[snapshotRoot] = true
				ds.bus.Publish(eventbus.DatabaseDiscoveredEvent{SnapshotRoot: snapshotRoot})
				found++
			}
			// Don't descend into the database directory itself
			return fs.SkipDir
		}

		// Skip hidden directories
		if strings.HasPrefix(dirName, ".") && dirName != "." {
			return fs.SkipDir
		}

		// Skip common non-snapshot directories to speed up scanning
		skipDirs := []string{"node_modules", "target", "build", "dist", "vendor", "__pycache__"}
		for _, skipDir := range skipDirs {
			if dirName == skipDir {
				return fs.SkipDir
			}
		}

		return nil
	})

	if err != nil && err != context.Canceled {
		log.Printf("Error scanning directory %s: %v", root, err)
		ds.bus.Publish(eventbus.ErrorEvent{
			Message: fmt.Sprintf("Failed to scan %s", root),
			Err:     err,
		})
	}

	return found
}
