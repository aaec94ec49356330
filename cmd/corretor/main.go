// Package main is the corretor CLI entry point.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/corretor/internal/cli"
	"github.com/hyperjump/corretor/internal/config"
	"github.com/hyperjump/corretor/internal/server"
	"github.com/hyperjump/corretor/internal/speller"
	"github.com/hyperjump/corretor/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/corretor/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if neither exists the
// built-in defaults are used. Returns the config and the path that was actually
// loaded, empty when defaults were used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "check":
		runCheck()
	case "build":
		runBuild()
	case "version", "--version", "-v":
		fmt.Printf("corretor version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (candidate fallbacks, requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components := initializeComponents(context.Background(), cfg, logger)
	srv := server.NewServer(components.Speller, &cfg.Server, components.Source, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printCheckUsage prints check subcommand usage.
func printCheckUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: corretor check [flags] [text...]\n\n")
	fmt.Fprintf(fs.Output(), "Text is all remaining arguments joined by spaces. Without arguments each line of stdin is checked.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  corretor check O ratto roeu a roupa do Rey de Roma
  corretor check --output json "Olá, mumdo!"
  cat texto.txt | corretor check
  corretor check --server http://localhost:8080 "Você nao sabe"
`)
}

// buildText joins all positional args with spaces so multi-word text works the
// same with or without shell quoting.
func buildText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// checkValueFlags are the check flags that take a value.
var checkValueFlags = map[string]bool{"config": true, "server": true, "output": true}

// argsReorder moves the check flags (and their values) to the front, followed
// by "--" and the text arguments in their original order. Go's flag package
// stops at the first non-flag argument, so "corretor check casa --output json"
// would otherwise check the literal "--output json". Anything that is not a
// known flag, including a lone "-", is text; so is everything after "--".
func argsReorder(args []string) []string {
	var flags, text []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			text = append(text, args[i+1:]...)
			break
		}
		name, hasValue := flagName(a)
		switch {
		case name == "h" || name == "help":
			flags = append(flags, a)
		case checkValueFlags[name]:
			flags = append(flags, a)
			if !hasValue && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			text = append(text, a)
		}
	}
	if len(text) == 0 {
		return flags
	}
	return append(append(flags, "--"), text...)
}

// flagName returns the name of a "-name", "--name" or "--name=value"
// argument, and whether the value is inline. It returns "" for non-flags.
func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true
	}
	return name, false
}

// checkFunc corrects one text, locally or through the HTTP API.
type checkFunc func(ctx context.Context, text string) (*speller.Result, error)

func runCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = build the vocabulary locally)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (one object per line)")
	fs.Usage = func() { printCheckUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var check checkFunc
	if *serverURL != "" {
		url := strings.TrimRight(*serverURL, "/")
		check = func(ctx context.Context, text string) (*speller.Result, error) {
			return checkViaHTTP(ctx, url, text)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		check = initializeComponents(context.Background(), cfg, logger).Speller.Check
	}

	ctx := context.Background()
	if text := buildText(fs.Args()); text != "" {
		result, err := check(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteCheckResult(os.Stdout, result, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := checkLines(ctx, os.Stdin, os.Stdout, check, format); err != nil {
		fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
		os.Exit(1)
	}
}

// checkLines checks every non-blank line of r and writes one result per line.
func checkLines(ctx context.Context, r io.Reader, w io.Writer, check checkFunc, format cli.OutputFormat) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result, err := check(ctx, line)
		if err != nil {
			return err
		}
		if err := cli.WriteCheckResult(w, result, format); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func checkViaHTTP(ctx context.Context, serverURL, text string) (*speller.Result, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/v1/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var result speller.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	out := fs.String("out", "", "snapshot database path, recorded as corpus.snapshot_path in the config file (default: corpus.snapshot_path)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := *out
	if path == "" {
		path = cfg.Corpus.SnapshotPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "No snapshot path: pass --out or set corpus.snapshot_path")
		os.Exit(1)
	}

	snap, err := buildSnapshot(context.Background(), cfg, path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Snapshot %s: %d words (%d occurrences) from %s written to %s\n",
		snap.ID, snap.Words, snap.Total, snap.Source, path)

	if *out != "" && resolvedConfigPath != "" {
		saved, err := recordSnapshotPath(resolvedConfigPath, cfg, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update config: %v\n", err)
			os.Exit(1)
		}
		if saved {
			fmt.Printf("corpus.snapshot_path updated in %s\n", resolvedConfigPath)
		}
	}
}

func printUsage() {
	fmt.Println(`corretor - Portuguese spelling corrector

Usage:
  corretor server [flags]          Start the HTTP server
  corretor check [flags] [text]    Correct text (arguments or stdin lines)
  corretor build [flags]           Build a vocabulary snapshot from the corpus
  corretor version                 Show version
  corretor help                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/corretor/config.yaml)
  --debug            Enable debug logging

Check Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL; empty builds the vocabulary locally (default: "")
  --output string    Output format: text or json (default: text)

Build Flags:
  --config string    Config file path
  --out string       Snapshot database path; also saved as corpus.snapshot_path
                     in the loaded config file (default: corpus.snapshot_path)

Examples:
  corretor server
  corretor check O ratto roeu a roupa do Rey de Roma
  corretor check --output json "Olá, mumdo!"
  echo "Você nao sabe" | corretor check --server http://localhost:8080
  corretor build --out ./vocab.db`)
}
