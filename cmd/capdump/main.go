// capdump prints or browses the commands stored in a capture file.
//
//	capdump [--config file] [-i] [--call NAME] [--rewrite out.d3dc] capture.d3dc
//	capdump --list
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/d3d12-capture/capture"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/config"
	"github.com/wippyai/d3d12-capture/registry"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	call        string
	rewrite     string
	list        bool
	interactive bool
}

func run(args []string, stdout io.Writer) error {
	var opts options
	fs := pflag.NewFlagSet("capdump", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config (default: $"+config.EnvVar+")")
	fs.StringVar(&opts.call, "call", "", "Only show commands of this API call")
	fs.StringVar(&opts.rewrite, "rewrite", "", "Write the decoded commands to a new capture using the configured compression")
	fs.BoolVar(&opts.list, "list", false, "List supported calls and exit")
	fs.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse commands in a terminal UI")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: capdump [flags] capture.d3dc")
		fmt.Fprintln(os.Stderr, "       capdump --list")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if opts.list {
		for _, id := range command.Calls() {
			fmt.Fprintf(stdout, "%3d  %s\n", uint32(id), id)
		}
		return nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one capture file, got %d arguments", fs.NArg())
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	capture.SetLogger(logger.Named("capture"))
	registry.SetLogger(logger.Named("registry"))

	filter := command.CallInvalid
	if opts.call != "" {
		id, ok := command.Lookup(opts.call)
		if !ok {
			return fmt.Errorf("unknown call %q (see --list)", opts.call)
		}
		filter = id
	}

	d, err := load(context.Background(), fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	logger.Debug("capture loaded",
		zap.String("file", d.path),
		zap.Int("commands", len(d.commands)),
		zap.Int("objects", d.objects))

	if wantInteractive(opts.interactive, cfg.Dump.Interactive, stdout) {
		err = runInteractive(d, filter)
	} else {
		dump(stdout, d, filter)
	}
	if err != nil || opts.rewrite == "" {
		return err
	}
	// Recording renumbers the commands, so it runs after they are shown.
	return rewrite(opts.rewrite, d.commands, cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func wantInteractive(flag bool, mode string, stdout io.Writer) bool {
	if flag {
		return true
	}
	switch mode {
	case "always":
		return true
	case "auto":
		f, ok := stdout.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	return false
}

// decoded is a fully loaded capture.
type decoded struct {
	path     string
	header   capture.Header
	commands []command.Command
	objects  int
}

func load(ctx context.Context, path string, cfg *config.Config) (*decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	r, err := capture.NewReader(f, cfg.ReaderOptions())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cmds, err := capture.DecodeAll(ctx, r, cfg.Decode.Workers)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// Learn the objects the capture creates so names show up in summaries.
	reg := registry.New()
	for _, c := range cmds {
		if err := reg.Apply(c); err != nil {
			registry.Logger().Warn("object bookkeeping failed",
				zap.Uint64("seq", c.Header().Seq), zap.Error(err))
		}
	}
	d := &decoded{path: path, header: r.Header(), commands: cmds, objects: reg.Len()}
	return d, reg.Close()
}

func rewrite(path string, cmds []command.Command, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	rec, err := capture.NewRecorder(f, cfg.RecorderOptions())
	if err != nil {
		f.Close()
		return err
	}
	for _, c := range cmds {
		if _, err := rec.Record(c.Header().Thread, c); err != nil {
			f.Close()
			return fmt.Errorf("rewrite seq %d: %w", c.Header().Seq, err)
		}
	}
	if err := rec.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func dump(w io.Writer, d *decoded, filter command.CallID) {
	h := d.header
	fmt.Fprintf(w, "Capture: %s\n", d.path)
	fmt.Fprintf(w, "API: %s  pointers: %d bytes  compression: %s  checksum: %v\n",
		h.API, h.PointerSize, h.Compression, h.Checksum)
	if h.Application != "" {
		fmt.Fprintf(w, "Application: %s\n", h.Application)
	}
	fmt.Fprintf(w, "Commands: %d  objects created: %d\n\n", len(d.commands), d.objects)

	for _, c := range d.commands {
		if filter != command.CallInvalid && c.Call() != filter {
			continue
		}
		fmt.Fprintln(w, line(c))
	}
}

func line(c command.Command) string {
	h := c.Header()
	return fmt.Sprintf("%8d  t%-6d  %-60s  %s", h.Seq, h.Thread, c.Call(), summary(c))
}
