// Command irreport lists recorded probe sessions and renders a session as
// a text summary, an HTML chart page or a PNG plot.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/irpointer/internal/recorder"
	"github.com/banshee-data/irpointer/internal/report"
	"github.com/banshee-data/irpointer/internal/security"
	"github.com/banshee-data/irpointer/internal/version"
)

var (
	dbFile      = flag.String("db", "irprobe.db", "Path to the SQLite database file")
	sessionID   = flag.String("session", "", "Session ID to report on (default: most recent)")
	format      = flag.String("format", "text", "Output format: text, html or png")
	outFile     = flag.String("out", "", "Output file (required for png, stdout otherwise)")
	list        = flag.Bool("list", false, "List recorded sessions and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("irreport"))
		return
	}

	store, err := recorder.Open(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if *list {
		if err := listSessions(os.Stdout, store); err != nil {
			log.Fatalf("Failed to list sessions: %v", err)
		}
		return
	}

	if err := generate(store, *sessionID, *format, *outFile, os.Stdout); err != nil {
		log.Fatalf("irreport: %v", err)
	}
}

func listSessions(w io.Writer, store *recorder.Store) error {
	sessions, err := store.Sessions()
	if err != nil {
		return err
	}
	for _, s := range sessions {
		counts, err := store.OutcomeCounts(s.ID)
		if err != nil {
			return err
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		fmt.Fprintf(w, "%s  %s  source=%-9s coverage=%-7s ticks=%d\n",
			s.ID, s.StartedAt.Local().Format(time.DateTime), s.Source, s.Coverage, total)
	}
	return nil
}

// generate writes the report for one session. An empty id picks the most
// recent session.
func generate(store *recorder.Store, id, format, out string, stdout io.Writer) error {
	if id == "" {
		sessions, err := store.Sessions()
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no sessions recorded in database")
		}
		id = sessions[0].ID
	}

	if out != "" {
		if err := security.ValidateExportPath(out); err != nil {
			return err
		}
	}

	ticks, err := store.Ticks(id)
	if err != nil {
		return err
	}
	title := "session " + id

	switch strings.ToLower(format) {
	case "text":
		return writeTo(out, stdout, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s\n%s", title, report.Summarize(ticks))
			return err
		})
	case "html":
		return writeTo(out, stdout, func(w io.Writer) error {
			return report.RenderHTML(w, title, ticks)
		})
	case "png":
		if out == "" {
			return fmt.Errorf("png output requires -out")
		}
		if ext := filepath.Ext(out); ext != ".png" {
			return fmt.Errorf("png output file must have .png extension, got %q", ext)
		}
		return report.RenderPNG(out, title, ticks)
	}
	return fmt.Errorf("unknown format %q: expected text, html or png", format)
}

func writeTo(path string, stdout io.Writer, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
