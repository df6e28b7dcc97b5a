package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datasweep/internal/core"
)

// settleDelay is how long a file must go without events before it is
// converted, so a file still being written is read once, complete.
const settleDelay = 200 * time.Millisecond

var errWatchOutput = errors.New("output directory must differ from the watched directory")

// dirWatcher converts supported files as they appear in a directory.
type dirWatcher struct {
	conv  *converter
	out   io.Writer
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func newDirWatcher(conv *converter, out io.Writer) *dirWatcher {
	return &dirWatcher{
		conv:    conv,
		out:     out,
		delay:   settleDelay,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches dir until ctx is cancelled. Conversions already scheduled
// finish before Run returns.
func (d *dirWatcher) Run(ctx context.Context, dir string) error {
	if samePath(dir, d.conv.outDir) || d.conv.outDir == "" {
		return errWatchOutput
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	d.conv.logger.Info("watching", "dir", dir, "out", d.conv.outDir)

	defer d.wait()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !core.Supported(strings.ToLower(filepath.Ext(event.Name))) {
				continue
			}
			d.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.conv.logger.Warn("watch error", "error", err)
		}
	}
}

// schedule converts path once it has been quiet for d.delay.
func (d *dirWatcher) schedule(ctx context.Context, path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[path]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.pending[path] == t {
			delete(d.pending, path)
		}
		d.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		for _, o := range d.conv.run(ctx, []string{path}) {
			d.mu.Lock()
			printOutcome(d.out, o)
			d.mu.Unlock()
		}
	})
	d.pending[path] = t
}

// wait stops timers that have not fired and waits for running conversions.
func (d *dirWatcher) wait() {
	d.mu.Lock()
	for path, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		flags  recipeFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert .csv and .xlsx files as they are written to DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			d := newDirWatcher(newConverter(recipe, outDir, a.logger), cmd.OutOrStdout())
			return d.Run(cmd.Context(), args[0])
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (required, must differ from DIR)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
