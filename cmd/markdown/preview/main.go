package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/goliatone/go-mdstyle"
	"github.com/goliatone/go-mdstyle/cmd/markdown/internal/bootstrap"
	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/terminal"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runPreview(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown preview: %v", err)
	}
}

func runPreview(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-preview", flag.ContinueOnError)
	filePath := fs.String("file", "", "Markdown file to preview")
	configPath := fs.String("config", "", "YAML configuration file")
	palette := fs.String("palette", "", "Style palette: light or dark (overrides config)")
	debounce := fs.Duration("debounce", -1, "Minimum interval between highlight passes while watching (overrides config)")
	watchFile := fs.Bool("watch", false, "Re-render whenever the file changes")
	ansi := fs.Bool("ansi", false, "Render the body with terminal styling")
	schema := fs.String("schema", "", "JSON schema the frontmatter must satisfy")
	verbose := fs.Bool("verbose", false, "Log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*filePath) == "" {
		return errors.New("--file is required")
	}
	path, err := filepath.Abs(*filePath)
	if err != nil {
		return err
	}

	p := &printer{out: out, path: *filePath, ansi: *ansi, renderer: terminal.NewRenderer(out)}
	opts := bootstrap.Options{
		ConfigPath: *configPath,
		Palette:    *palette,
		Schema:     *schema,
		Verbose:    *verbose,
		Presenter:  p,
	}
	if *debounce >= 0 {
		opts.Debounce = debounce
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Module == nil {
		return errors.New("mdstyle module not configured")
	}
	p.engine = module.Module.Engine()

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path))
	source := fileSource{id.String(): path}
	edit := module.Module.Editor().Edit
	update := func(force bool) error {
		raw, err := source.Load(ctx, id.String())
		if err != nil {
			return err
		}
		p.size = len(raw)
		return edit.Execute(ctx, mdstyle.DocumentEditedCommand{DocumentID: id, Text: raw, Force: force})
	}

	if !*watchFile {
		return update(true)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	if err := update(true); err != nil {
		return err
	}
	module.Logger.Info("preview.watch.started", "path", path)

	// A debounced save is rendered once the window has passed without
	// further events.
	interval := module.Module.Container().Config.Highlight.DebounceInterval
	trailing := time.NewTimer(interval)
	trailing.Stop()
	defer trailing.Stop()

	for {
		select {
		case <-ctx.Done():
			module.Logger.Info("preview.watch.stopped", "path", path)
			return nil
		case <-trailing.C:
			if err := update(true); err != nil {
				module.Logger.Error("preview.update.failed", "path", path, "error", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := update(false); err != nil {
				module.Logger.Error("preview.update.failed", "path", path, "error", err)
				continue
			}
			if p.takeStale() {
				trailing.Reset(interval)
				module.Logger.Debug("preview.update.debounced", "path", path, "retry_in", interval)
			} else {
				trailing.Stop()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			module.Logger.Warn("preview.watch.error", "error", err)
		}
	}
}

// fileSource maps document ids to paths on disk.
type fileSource map[string]string

func (f fileSource) Load(_ context.Context, id string) (string, error) {
	path, ok := f[id]
	if !ok {
		return "", fmt.Errorf("unknown document %s", id)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}

var _ interfaces.DocumentSource = fileSource(nil)

// printer presents renderings on a terminal. Debounced renderings are
// skipped since their ranges may not match the body; the watch loop
// re-renders them once the window has passed.
type printer struct {
	stale    atomic.Bool
	out      io.Writer
	path     string
	size     int
	ansi     bool
	renderer *terminal.Renderer
	engine   *highlight.Engine
}

func (p *printer) Present(ctx context.Context, r interfaces.Rendering) error {
	if !r.Fresh {
		p.stale.Store(true)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\nSize: %s (body %s)\nRendered: %s\n\n",
		p.path, humanize.Bytes(uint64(p.size)), humanize.Bytes(uint64(len(r.Body))), time.Now().Format(time.TimeOnly))

	if len(r.Frontmatter) > 0 {
		meta, err := json.MarshalIndent(r.Frontmatter, "", "  ")
		if err != nil {
			return fmt.Errorf("encode frontmatter: %w", err)
		}
		fmt.Fprintf(&b, "Frontmatter:\n%s\n\n", meta)
	}

	fmt.Fprintf(&b, "Spans: %s\n", humanize.Comma(int64(len(r.Ranges))))
	for _, line := range styleSummary(r.Ranges) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("\n")

	body := r.Body
	if p.ansi && p.engine != nil {
		text, err := p.annotated(ctx, r)
		if err != nil {
			return err
		}
		body = p.renderer.Render(text)
	}
	fmt.Fprintf(&b, "Body:\n%s\n", body)

	_, err := io.WriteString(p.out, b.String())
	return err
}

// takeStale reports whether a rendering was skipped since the last call.
func (p *printer) takeStale() bool {
	return p.stale.Swap(false)
}

// annotated rebuilds the annotated text with the rules of the active style
// configuration.
func (p *printer) annotated(ctx context.Context, r interfaces.Rendering) (highlight.AnnotatedText, error) {
	cfg, err := p.engine.StyleConfig(ctx)
	if err != nil {
		return highlight.AnnotatedText{}, err
	}
	text := highlight.AnnotatedText{Text: r.Body, Spans: make([]highlight.Span, 0, len(r.Ranges))}
	for _, rng := range r.Ranges {
		rule, _ := cfg.Rule(highlight.StyleID(rng.Style))
		text.Spans = append(text.Spans, highlight.Span{Start: rng.Start, End: rng.End, Style: highlight.StyleID(rng.Style), Rule: rule})
	}
	return text, nil
}

func styleSummary(ranges []interfaces.StyledRange) []string {
	counts := map[string]int{}
	for _, rng := range ranges {
		counts[rng.Style]++
	}
	styles := make([]string, 0, len(counts))
	for style := range counts {
		styles = append(styles, style)
	}
	sort.Strings(styles)

	lines := make([]string, 0, len(styles))
	for _, style := range styles {
		lines = append(lines, fmt.Sprintf("%-14s %d", style, counts[style]))
	}
	return lines
}
