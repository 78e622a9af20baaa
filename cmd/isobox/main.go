// Command isobox is a small probe/watch client over the box package,
// styled after cromedia's own probe/cut CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"isobox/box"
	"isobox/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: isobox <command> [args]")
		fmt.Println("Commands: probe, watch")
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "probe":
		runProbe(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func newLogger(logPath string) *logging.FileLogger {
	return logging.New(logPath, 50, 5, 28, logging.Info, os.Stderr)
}

// runProbe opens a file, reads its top-level boxes one at a time through
// Reader, and prints the resulting tree.
func runProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	logPath := fs.String("log", "isobox-probe.log", "log file path")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("Usage: isobox probe [-log path] <file.mp4>")
		os.Exit(1)
	}
	l := newLogger(*logPath)

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		l.Fatal("could not open file", "error", err)
	}
	defer f.Close()

	r := box.NewReader(f)
	var types []string
	for {
		h, payload, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.Fatal("read failed", "error", errors.Wrap(err, "probe"))
		}
		b, err := r.Decode(h, payload)
		if err != nil {
			l.Error("decode failed", "kind", h.Kind.String(), "error", errors.Wrap(err, "probe"))
			continue
		}
		types = append(types, b.Kind().String())
		printBox(b, "")
	}
	fmt.Printf("\nAll top-level atoms: %v\n", types)
}

func printBox(b box.Box, indent string) {
	if b.IsUnknown() {
		fmt.Printf("%s[%s] (unrecognized, %d bytes)\n", indent, b.Kind().String(), len(b.Raw))
		return
	}
	fmt.Printf("%s[%s]\n", indent, b.Kind().String())
	if m, ok := b.Body.(*box.Moov); ok {
		printMoov(m, indent+"  ")
	}
}

func printMoov(m *box.Moov, indent string) {
	fmt.Printf("%smvhd: timescale=%d duration=%d\n", indent, m.Mvhd.Timescale, m.Mvhd.Duration)
	for _, tr := range m.Trak {
		fmt.Printf("%strak: id=%d duration=%d handler=%s\n", indent, tr.Tkhd.TrackID, tr.Tkhd.Duration, tr.Mdia.Hdlr.HandlerType.String())
	}
	if m.Mvex != nil {
		fmt.Printf("%smvex: %d trex entries\n", indent, len(m.Mvex.Trex))
	}
}

// runWatch tails a growing fragmented-MP4 file, draining newly appended
// top-level atoms as fsnotify reports writes, and reports readiness to
// systemd (if run under it) once the first atom has been read.
func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	logPath := fs.String("log", "isobox-watch.log", "log file path")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("Usage: isobox watch [-log path] <file.mp4>")
		os.Exit(1)
	}
	l := newLogger(*logPath)

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		l.Fatal("could not open file", "error", err)
	}
	defer f.Close()

	watcher, err := newFileWatcher(path)
	if err != nil {
		l.Fatal("could not start watcher", "error", errors.Wrap(err, "watch"))
	}
	defer watcher.Close()

	r := box.NewReader(f)
	notified := false
	for range watcher.Events() {
		for {
			h, payload, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				l.Error("read failed", "error", errors.Wrap(err, "watch"))
				break
			}
			b, err := r.Decode(h, payload)
			if err != nil {
				l.Error("decode failed", "kind", h.Kind.String(), "error", errors.Wrap(err, "watch"))
				continue
			}
			l.Info("read atom", "kind", b.Kind().String())
			if !notified {
				notifyReady(l)
				notified = true
			}
		}
	}
}
