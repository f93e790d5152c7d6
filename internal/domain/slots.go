package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/varmint-dev/varmint/internal/adapter"
	m "github.com/varmint-dev/varmint/internal/model"
)

// TreeSlot is one disposable clone of the source tree. A slot is held by at
// most one scenario at a time; the mutated file is reverted before the slot
// returns to the pool.
type TreeSlot struct {
	ID   int
	Root m.Path
}

// SlotPool owns a fixed set of tree slots cloned from the project root.
// Clones share file content with the original through hard links, so every
// in-slot edit must break the link before writing.
type SlotPool struct {
	fs       adapter.SourceFSAdapter
	logger   *slog.Logger
	pristine map[m.Path][]byte
	slots    chan *TreeSlot
	all      []*TreeSlot
}

// NewSlotPool clones the tree at root n times into temporary directories.
// pristine maps relative paths to their unmutated content and is the revert
// source for every slot.
func NewSlotPool(
	ctx context.Context,
	fs adapter.SourceFSAdapter,
	logger *slog.Logger,
	root m.Path,
	n int,
	pristine map[m.Path][]byte,
) (*SlotPool, error) {
	if n < 1 {
		n = 1
	}

	pool := &SlotPool{
		fs:       fs,
		logger:   logger,
		pristine: pristine,
		slots:    make(chan *TreeSlot, n),
	}

	for i := 0; i < n; i++ {
		dir, err := fs.CreateTempDir(ctx, fmt.Sprintf("varmint-slot-%d-", i))
		if err != nil {
			pool.Close(ctx)

			return nil, fmt.Errorf("creating slot directory: %w", err)
		}

		slot := &TreeSlot{ID: i, Root: dir}
		pool.all = append(pool.all, slot)

		if err := fs.CloneTree(ctx, root, dir); err != nil {
			pool.Close(ctx)

			return nil, fmt.Errorf("cloning tree into slot %d: %w", i, err)
		}

		logger.Debug("slot ready", "slot", i, "dir", dir)
		pool.slots <- slot
	}

	return pool, nil
}

// Size returns the number of slots the pool owns.
func (p *SlotPool) Size() int {
	return len(p.all)
}

// Acquire blocks until a slot is free or ctx is done.
func (p *SlotPool) Acquire(ctx context.Context) (*TreeSlot, error) {
	select {
	case slot := <-p.slots:
		return slot, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a slot to the pool. The caller must have reverted any
// applied mutant first.
func (p *SlotPool) Release(slot *TreeSlot) {
	p.slots <- slot
}

// Apply writes the mutant's edit into the slot's copy of the file. The target
// is removed before writing so the hard-linked original inode is never
// touched. One retry covers transient filesystem errors; a second failure is
// fatal for the run.
func (p *SlotPool) Apply(ctx context.Context, slot *TreeSlot, mutant m.Mutant) error {
	content, ok := p.pristine[mutant.File]
	if !ok {
		return fmt.Errorf("no pristine content for %s", mutant.File)
	}

	mutated := make([]byte, 0, len(content)-mutant.Span.Len()+len(mutant.Replacement))
	mutated = append(mutated, content[:mutant.Span.Start]...)
	mutated = append(mutated, mutant.Replacement...)
	mutated = append(mutated, content[mutant.Span.End:]...)

	return p.rewrite(ctx, slot, mutant.File, mutated)
}

// Revert restores the pristine content of the mutant's file in the slot.
func (p *SlotPool) Revert(ctx context.Context, slot *TreeSlot, mutant m.Mutant) error {
	content, ok := p.pristine[mutant.File]
	if !ok {
		return fmt.Errorf("no pristine content for %s", mutant.File)
	}

	return p.rewrite(ctx, slot, mutant.File, content)
}

func (p *SlotPool) rewrite(ctx context.Context, slot *TreeSlot, file m.Path, content []byte) error {
	target := p.fs.JoinPath(slot.Root, file)

	err := p.rewriteOnce(ctx, target, content)
	if err == nil {
		return nil
	}

	p.logger.Warn("slot write failed, retrying", "slot", slot.ID, "file", file, "error", err)

	if err := p.rewriteOnce(ctx, target, content); err != nil {
		return fmt.Errorf("rewriting %s in slot %d: %w", file, slot.ID, err)
	}

	return nil
}

func (p *SlotPool) rewriteOnce(ctx context.Context, target m.Path, content []byte) error {
	// Unlink first: the clone shares inodes with the original tree.
	if err := p.fs.RemoveFile(ctx, target); err != nil {
		return err
	}

	return p.fs.WriteFile(ctx, target, content, 0o600)
}

// Close removes every slot directory. Safe to call with slots still checked
// out; their directories disappear under them, so Close belongs after the
// scheduler has drained.
func (p *SlotPool) Close(ctx context.Context) {
	for _, slot := range p.all {
		if err := p.fs.RemoveAll(ctx, slot.Root); err != nil {
			p.logger.Warn("removing slot directory", "slot", slot.ID, "error", err)
		}
	}
}
