package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wavewatch/wavewatch/pkg/loader"
	"github.com/wavewatch/wavewatch/pkg/notify"
	"github.com/wavewatch/wavewatch/pkg/runner"
	"github.com/wavewatch/wavewatch/pkg/storage"
)

// stdoutNotifier prints messages instead of pushing them.
type stdoutNotifier struct{}

func (stdoutNotifier) Send(_ context.Context, msg notify.Message) error {
	fmt.Printf("--- %s ---\n%s\n", msg.Title, msg.Body)
	return nil
}

func main() {
	// Usage: go run . -html saved-page.html -schools "Harvard University,Yale University"

	htmlFlag := flag.String("html", "", "Saved copy of the recent-decisions page (fetches live if empty)")
	schoolsFlag := flag.String("schools", "", "Comma-separated schools to watch (all if empty)")
	stateFlag := flag.String("state", filepath.Join(".", "example-state.json"), "State file")

	// Parse the command-line flags
	flag.Parse()

	var l loader.Loader = loader.NewHTTPLoader()
	if *htmlFlag != "" {
		l = &loader.FileLoader{Path: *htmlFlag}
	}

	var schools []string
	for _, s := range strings.Split(*schoolsFlag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			schools = append(schools, s)
		}
	}

	res, err := runner.Run(context.Background(), runner.Config{
		Loader:    l,
		Notifier:  stdoutNotifier{},
		Store:     storage.NewFileStore(*stateFlag),
		Filter:    runner.FilterConfig{Schools: schools, Enabled: len(schools) > 0},
		SourceURL: "https://lsd.law/recent-decisions",
		Title:     "New Law School Wave!",
	})
	if err != nil {
		fmt.Println("check failed:", err)
		return
	}

	for _, c := range res.Changes {
		fmt.Println(c.SchoolName, c.Result, c.Date, c.Count, c.Delta, c.IsNew)
	}
}
