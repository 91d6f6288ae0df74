package assets

import (
	"cmp"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/framegraph/engine/core"
	"github.com/spaghettifunk/framegraph/engine/rendergraph"
)

var ErrManagerClosed = errors.New("asset manager already closed")

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeGraph
	AssetTypeShader
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// GraphUpdate carries a graph description that was created or rewritten on
// disk.
type GraphUpdate struct {
	Path   string
	Config *rendergraph.Config
}

// Manager indexes the assets below the watched directories and reloads graph
// descriptions when they change.
type Manager struct {
	assets map[string]AssetInfo
	mutex  sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	closed   bool
	graphs   chan GraphUpdate
	errors   chan error
}

func NewManager() (*Manager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	am := &Manager{
		assets:   make(map[string]AssetInfo),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		graphs:   make(chan GraphUpdate, 8),
		errors:   make(chan error, 8),
	}
	go am.start()
	return am, nil
}

// Graphs delivers reloaded graph descriptions. It is closed by Close.
func (am *Manager) Graphs() <-chan GraphUpdate {
	return am.graphs
}

// Errors delivers watcher and decoding failures. It is closed by Close.
func (am *Manager) Errors() <-chan error {
	return am.errors
}

// Watch indexes the named directory and all sub-directories and starts
// watching them.
func (am *Manager) Watch(dir string) error {
	am.mutex.RLock()
	closed := am.closed
	am.mutex.RUnlock()
	if closed {
		return ErrManagerClosed
	}
	return am.watchRecursive(filepath.Clean(dir), false)
}

// Unwatch stops watching the named directory and all sub-directories.
func (am *Manager) Unwatch(dir string) error {
	return am.watchRecursive(filepath.Clean(dir), true)
}

// Assets lists the indexed assets ordered by path.
func (am *Manager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b AssetInfo) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

func (am *Manager) Asset(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	a, ok := am.assets[filepath.Clean(path)]
	return a, ok
}

// LoadGraph decodes the graph description at path and records the load.
func (am *Manager) LoadGraph(path string) (*rendergraph.Config, error) {
	path = filepath.Clean(path)
	cfg, err := rendergraph.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: AssetTypeGraph, LastLoaded: time.Now()}
	am.mutex.Unlock()
	return cfg, nil
}

// Close stops the watcher and closes the Graphs and Errors channels.
func (am *Manager) Close() error {
	am.mutex.Lock()
	if am.closed {
		am.mutex.Unlock()
		return nil
	}
	am.closed = true
	am.mutex.Unlock()

	close(am.done)
	<-am.stopped
	return nil
}

func (am *Manager) start() {
	defer func() {
		am.fsnotify.Close()
		close(am.graphs)
		close(am.errors)
		close(am.stopped)
	}()

	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %v", err)
			am.sendError(err)

		case <-am.done:
			return
		}
	}
}

func (am *Manager) handleEvent(e fsnotify.Event) {
	path := filepath.Clean(e.Name)
	s, err := os.Stat(path)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(path, false); err != nil {
				am.sendError(err)
			}
		}
		return
	}

	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		am.handleFileEvent(path, true)
	}
	// a removed path cannot be stat'ed, so it is dropped from both the index
	// and the watch list whatever it was
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		am.removeAsset(path)
		am.fsnotify.Remove(path)
	}
}

// watchRecursive adds or removes every directory under root and indexes the
// files found on the way in.
func (am *Manager) watchRecursive(root string, unWatch bool) error {
	return filepath.WalkDir(root, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		if !unWatch {
			am.handleFileEvent(walkPath, false)
		}
		return nil
	})
}

// handleFileEvent indexes path and, when reload is set, decodes graph
// descriptions and publishes them.
func (am *Manager) handleFileEvent(path string, reload bool) {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	am.mutex.Lock()
	am.assets[path] = AssetInfo{Path: path, Type: assetType}
	am.mutex.Unlock()

	if !reload || assetType != AssetTypeGraph {
		return
	}
	cfg, err := am.LoadGraph(path)
	if err != nil {
		core.LogWarn("failed to reload graph %s: %v", path, err)
		am.sendError(err)
		return
	}
	core.LogDebug("graph %s reloaded with %d passes", path, len(cfg.Passes))
	select {
	case am.graphs <- GraphUpdate{Path: path, Config: cfg}:
	case <-am.done:
	}
}

func (am *Manager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, path)
}

func (am *Manager) sendError(err error) {
	select {
	case am.errors <- err:
	case <-am.done:
	default:
		core.LogWarn("asset watcher error dropped: %v", err)
	}
}

func determineAssetType(path string) AssetType {
	switch filepath.Ext(path) {
	case ".toml":
		return AssetTypeGraph
	case ".shadercfg":
		return AssetTypeShader
	default:
		return AssetTypeNone
	}
}
