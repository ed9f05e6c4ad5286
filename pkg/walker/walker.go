package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/events"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/metrics"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/types"
	"github.com/rs/zerolog"
)

// Config configures a single traversal of one storage medium's root.
type Config struct {
	// Root is the absolute filesystem path of the medium's top folder.
	Root string
	// RootID is the archival ID assigned to Root itself (one of the three
	// well-known root IDs).
	RootID string
	// Medium labels every emitted event and metric ("hd1", "hd2", "floppy").
	Medium string
	// Broker receives EventPathVisited/EventPathError notifications. May be nil.
	Broker *events.Broker
}

// Walker performs the deterministic depth-first, case-insensitive
// alphabetic traversal of one medium's tree.
type Walker struct {
	cfg    Config
	logger zerolog.Logger

	events []types.WalkEvent
	errs   []types.HashError
}

// New creates a Walker for the given configuration.
func New(cfg Config) *Walker {
	return &Walker{
		cfg:    cfg,
		logger: log.WithComponent("walker").With().Str("medium", cfg.Medium).Logger(),
	}
}

// Walk traverses cfg.Root and returns the ordered event stream plus any
// per-path errors encountered along the way. It never aborts on a single
// path's error; it records the error and continues.
func (w *Walker) Walk() ([]types.WalkEvent, []types.HashError) {
	rootInfo, err := os.Lstat(w.cfg.Root)
	if err != nil {
		w.recordError(w.cfg.Root, err)
		return w.events, w.errs
	}

	root := types.WalkEvent{
		Path:   w.cfg.Root,
		Kind:   types.KindRecordSet,
		Depth:  0,
		ID:     w.cfg.RootID,
		Medium: w.cfg.Medium,
	}
	w.emit(root)

	rootDev := deviceOf(rootInfo)
	w.walkDir(w.cfg.Root, w.cfg.RootID, 1, rootDev)

	return w.events, w.errs
}

// walkDir recurses into dir, whose archival ID is parentID and whose
// children live at depth. rootDev is the device number of the medium's
// root, used to refuse to cross mount points.
func (w *Walker) walkDir(dir, parentID string, depth int, rootDev uint64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.recordError(dir, err)
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	folderSeq, fileSeq := 0, 0

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			w.recordError(path, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			w.logger.Debug().Str("path", path).Msg("skipping symlink")
			continue
		}

		if crossesDevice(info, rootDev) {
			w.logger.Debug().Str("path", path).Msg("skipping mount-point crossing")
			continue
		}

		if entry.IsDir() {
			folderSeq++
			id := fmt.Sprintf("%s_RS%d", parentID, folderSeq)
			w.emit(types.WalkEvent{
				Path:     path,
				Kind:     types.KindRecordSet,
				Depth:    depth,
				ParentID: parentID,
				ID:       id,
				Medium:   w.cfg.Medium,
			})
			w.walkDir(path, id, depth+1, rootDev)
			continue
		}

		fileSeq++
		id := fmt.Sprintf("%s_R%d", parentID, fileSeq)
		w.emit(types.WalkEvent{
			Path:     path,
			Kind:     types.KindRecord,
			Depth:    depth,
			ParentID: parentID,
			ID:       id,
			Medium:   w.cfg.Medium,
		})
	}
}

func (w *Walker) emit(ev types.WalkEvent) {
	w.events = append(w.events, ev)
	metrics.PathsVisitedTotal.WithLabelValues(w.cfg.Medium, string(ev.Kind)).Inc()
	w.publish(events.EventPathVisited, ev.Path, ev.ID)
}

func (w *Walker) recordError(path string, err error) {
	w.errs = append(w.errs, types.HashError{Path: path, Error: err.Error()})
	w.logger.Warn().Str("path", path).Err(err).Msg("path error, continuing traversal")
	metrics.PathErrorsTotal.WithLabelValues(w.cfg.Medium).Inc()
	w.publish(events.EventPathError, path, err.Error())
}

func (w *Walker) publish(typ events.EventType, path, detail string) {
	if w.cfg.Broker == nil {
		return
	}
	w.cfg.Broker.Publish(&events.Event{
		Type:    typ,
		Medium:  w.cfg.Medium,
		Message: path,
		Metadata: map[string]string{
			"detail": detail,
		},
	})
}
