package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"book-companion/chat"
	"book-companion/db"
	"book-companion/llm"
	"book-companion/utils"
)

var (
	version = "0.1.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	mode := flag.String("mode", "", "Prompt mode (explain, summarize, translate, ...)")
	highlight := flag.String("highlight", "", "Highlighted passage to ask about")
	listHistory := flag.Bool("history", false, "List saved conversations")
	deleteIndex := flag.Int("delete", -1, "Delete the history entry at the given index")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Book Companion v%s\n", version)
		os.Exit(0)
	}

	// Load configuration; anything missing degrades to defaults
	actualConfigPath := *configPath
	if actualConfigPath == "" {
		var err error
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			fmt.Printf("Failed to create default config: %v\n", err)
			actualConfigPath = utils.GetConfigPath()
		}
	}
	config, err := utils.LoadConfig(actualConfigPath)

	// Initialize logger
	logger, logErr := utils.NewLogger(utils.GetLogPath(config.DataDir))
	if logErr != nil {
		fmt.Printf("Failed to initialize logger: %v\n", logErr)
		logger = nil
	}
	defer logger.Close()
	if err != nil {
		logger.Warn("config fell back to defaults: %v", err)
	}
	logger.Info("Starting Book Companion v%s", version)

	// Initialize history store; a broken store means an empty history, never
	// a startup failure
	var store *db.Store
	if config.Features.SaveHistory {
		store, err = db.Open(filepath.Join(config.DataDir, "history.db"))
		if err != nil {
			logger.Warn("history store unavailable: %v", err)
			store = nil
		}
	}
	defer store.Close()

	if *listHistory {
		printHistory(store)
		os.Exit(0)
	}
	if *deleteIndex >= 0 {
		if err := deleteHistoryEntry(store, *deleteIndex); err != nil {
			fmt.Printf("Failed to delete history entry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted history entry %d\n", *deleteIndex)
		os.Exit(0)
	}

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Println("Usage: book-companion [flags] <question>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Diagnostics log for failed requests
	var recorder llm.Recorder
	if config.Features.Diagnostics {
		recorder = utils.NewDiagLog(filepath.Join(config.DataDir, "errors.log"))
	}

	engine := llm.NewEngine(llm.NewTransport(), recorder)
	session := chat.NewSession(engine, store, logger, config.RequestOptions())

	if *mode != "" {
		prompt, ok := config.Prompts[*mode]
		if !ok {
			fmt.Printf("Unknown prompt mode %q\n", *mode)
			os.Exit(1)
		}
		session.SetMode(*mode, prompt, *highlight)
	}

	var reply string
	if *mode != "" {
		// The highlight is already seeded as the mode's context turn
		reply, err = session.Ask(context.Background(), question)
	} else {
		reply, err = session.AskAboutText(context.Background(), *highlight, question)
	}
	if err != nil {
		logger.Error("request failed: %v", err)
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(reply)
}

// deleteHistoryEntry removes one saved conversation. A nil store means
// history saving is turned off; that is reported instead of pretending the
// delete happened.
func deleteHistoryEntry(store *db.Store, index int) error {
	if store == nil {
		return errors.New("history saving is disabled")
	}
	return store.RemoveAt(index)
}

func printHistory(store *db.Store) {
	if store == nil {
		fmt.Println("History saving is disabled.")
		return
	}
	entries, err := store.LoadAll()
	if err != nil {
		fmt.Printf("Failed to load history: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No saved conversations.")
		return
	}
	for i, entry := range entries {
		when := time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04")
		fmt.Printf("[%d] %s  %s\n", i, when, entry.Title)
	}
}
