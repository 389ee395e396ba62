// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/francisjervis/nyc-db/internal/core/effects"
	"github.com/francisjervis/nyc-db/internal/ctxutil"
	"github.com/francisjervis/nyc-db/internal/logger"
	"github.com/francisjervis/nyc-db/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	splicer secondary.FileSplicer
	regions secondary.RegionRepository  // nil when the registry is disabled
	history secondary.HistoryRepository // nil when the registry is disabled
	log     *logger.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor. regions and history
// may be nil, in which case shared blocks are removed by first occurrence and
// no history is kept.
func NewEffectExecutor(
	splicer secondary.FileSplicer,
	regions secondary.RegionRepository,
	history secondary.HistoryRepository,
	log *logger.Logger,
) *DefaultEffectExecutor {
	if log == nil {
		log = logger.NewNop()
	}
	return &DefaultEffectExecutor{
		splicer: splicer,
		regions: regions,
		history: history,
		log:     log,
	}
}

// Execute processes a slice of effects, executing each in sequence.
// It stops at the first error.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	switch eff.Operation {
	case effects.FileWrite:
		e.log.Debug("write file", "path", eff.Path, "bytes", len(eff.Content))
		return e.splicer.WriteFile(ctx, eff.Path, eff.Content, eff.Mode)
	case effects.FileDelete:
		e.log.Debug("delete file", "path", eff.Path)
		return e.splicer.DeleteFile(ctx, eff.Path)
	case effects.FileAppendBlock:
		return e.appendBlock(ctx, eff)
	case effects.FileRemoveBlock:
		return e.removeBlock(ctx, eff)
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) appendBlock(ctx context.Context, eff effects.FileEffect) error {
	text := string(eff.Content)
	offset, err := e.splicer.Append(ctx, eff.Path, text)
	if err != nil {
		return err
	}
	e.log.Debug("append block", "path", eff.Path, "offset", offset, "dataset", eff.Owner)

	if e.regions == nil {
		return nil
	}
	length, sum := blockChecksum(text)
	record := &secondary.RegionRecord{
		RunID:    ctxutil.RunIDFromContext(ctx),
		Dataset:  eff.Owner,
		Path:     eff.Path,
		Offset:   offset,
		Length:   length,
		Checksum: sum,
	}
	if err := e.regions.Record(ctx, record); err != nil {
		return fmt.Errorf("failed to record region for %s: %w", eff.Path, err)
	}
	return nil
}

func (e *DefaultEffectExecutor) removeBlock(ctx context.Context, eff effects.FileEffect) error {
	text := string(eff.Content)

	if e.regions == nil {
		e.log.Debug("remove block", "path", eff.Path, "dataset", eff.Owner)
		return e.splicer.Remove(ctx, eff.Path, text)
	}

	region, err := e.regions.Find(ctx, eff.Owner, eff.Path)
	if err != nil {
		return fmt.Errorf("failed to look up region for %s: %w", eff.Path, err)
	}

	_, sum := blockChecksum(text)
	switch {
	case region == nil:
		e.log.Debug("remove block", "path", eff.Path, "dataset", eff.Owner)
		return e.splicer.Remove(ctx, eff.Path, text)
	case region.Checksum != sum:
		// The recorded block is left in place and keeps its record
		e.log.Warn("recorded region does not match generated block",
			"path", eff.Path, "dataset", eff.Owner, "recorded_run", region.RunID,
			"offset", region.Offset, "length", region.Length)
		return e.splicer.Remove(ctx, eff.Path, text)
	default:
		matched, err := e.splicer.RemoveAt(ctx, eff.Path, text, region.Offset)
		if err != nil {
			return err
		}
		if !matched {
			e.log.Warn("recorded offset is stale, removed first occurrence",
				"path", eff.Path, "dataset", eff.Owner, "offset", region.Offset)
		} else {
			e.log.Debug("remove block at recorded offset", "path", eff.Path, "offset", region.Offset)
		}
	}

	if err := e.regions.Forget(ctx, eff.Owner, eff.Path); err != nil {
		return fmt.Errorf("failed to forget region for %s: %w", eff.Path, err)
	}
	return nil
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case "history":
		return e.executeHistoryOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeHistoryOp(ctx context.Context, eff effects.PersistEffect) error {
	if eff.Operation != "record" {
		return fmt.Errorf("unknown history operation: %s", eff.Operation)
	}
	data, ok := eff.Data.(map[string]string)
	if !ok {
		return fmt.Errorf("invalid data type for history record: %T", eff.Data)
	}
	if e.history == nil {
		return nil
	}
	return e.history.Append(ctx, &secondary.HistoryRecord{
		RunID:   data["run_id"],
		Dataset: data["dataset"],
		Action:  data["action"],
		Source:  data["source"],
	})
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	keys := make([]string, 0, len(eff.Fields))
	for k := range eff.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys)+2)
	if runID := ctxutil.RunIDFromContext(ctx); runID != "" {
		kv = append(kv, "run_id", runID)
	}
	for _, k := range keys {
		kv = append(kv, k, eff.Fields[k])
	}
	e.log.Log(eff.Level, eff.Message, kv...)
}

// blockChecksum returns the length and hex SHA-256 of the bytes Append writes
// for text.
func blockChecksum(text string) (int64, string) {
	block := "\n\n" + text
	sum := sha256.Sum256([]byte(block))
	return int64(len(block)), hex.EncodeToString(sum[:])
}
