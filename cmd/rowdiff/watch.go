package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after the last file event
// before recomputing. Editors often save with several writes or a rename.
const debounceDelay = 150 * time.Millisecond

const clearScreen = "\033[H\033[2J"

// watcher redraws the diff of two files whenever either of them changes.
type watcher struct {
	oldPath string
	newPath string
	view    view
	stdout  io.Writer
	stderr  io.Writer
	// clear clears the screen before each redraw.
	clear bool
	// debounce overrides debounceDelay when non-zero.
	debounce time.Duration
}

// watchResult is the outcome of one recomputation.
type watchResult struct {
	gen int
	out rendered
	err error
	at  time.Time
}

// run draws the diff once, then redraws it after every change until ctx is
// done. The parent directories are watched rather than the files, so files
// replaced by an atomic rename keep being followed.
//
// Each recomputation runs on its own goroutine and is tagged with a
// generation number; a result is drawn only if no newer recomputation was
// started in the meantime.
func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	targets := make(map[string]bool)
	for _, p := range []string{w.oldPath, w.newPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
	}
	for p := range targets {
		dir := filepath.Dir(p)
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	delay := w.debounce
	if delay <= 0 {
		delay = debounceDelay
	}

	results := make(chan watchResult)
	gen := 0
	recompute := func() {
		gen++
		g := gen
		go func() {
			r := watchResult{gen: g}
			r.out, r.err = w.renderFiles()
			r.at = time.Now()
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}()
	}
	recompute()

	timer := time.NewTimer(delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			timer.Reset(delay)

		case <-timer.C:
			recompute()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.stderr, "Error: watch: %v\n", err)

		case r := <-results:
			if r.gen != gen {
				continue
			}
			w.draw(r)
		}
	}
}

// renderFiles reads both files and renders their diff.
func (w *watcher) renderFiles() (rendered, error) {
	oldText, err := readFile(w.oldPath)
	if err != nil {
		return rendered{}, err
	}
	newText, err := readFile(w.newPath)
	if err != nil {
		return rendered{}, err
	}
	return w.view.render(oldText, newText)
}

// draw prints one result and a status line.
func (w *watcher) draw(r watchResult) {
	if r.err != nil {
		fmt.Fprintf(w.stderr, "Error: %v\n", r.err)
		return
	}
	if w.clear {
		fmt.Fprint(w.stdout, clearScreen)
	}
	if r.out.text != "" {
		fmt.Fprintln(w.stdout, r.out.text)
	}
	st := r.out.stats
	status := "identical"
	if r.out.changed {
		status = fmt.Sprintf("%d deleted, %d inserted, %d changed", st.DeletedLines, st.InsertedLines, st.ModifiedLines)
	}
	fmt.Fprintf(w.stderr, "[%s] %s vs %s: %s\n", r.at.Format(time.TimeOnly), w.oldPath, w.newPath, status)
}
