// Command dbuf is the query driver: given a config file it opens a
// database and either runs a script of semicolon-terminated statements
// or drops into an interactive prompt, mirroring the original
// driver's read-execute loop.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/dbuf/internal/config"
	"github.com/cuemby/dbuf/internal/dbmetrics"
	"github.com/cuemby/dbuf/internal/engine"
	"github.com/cuemby/dbuf/internal/query"
	"github.com/cuemby/dbuf/pkg/log"
)

var (
	configPath string
	metricsAddr string
	logLevel   string
	logJSON    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dbuf",
	Short: "dbuf is a single-process, file-backed relational database",
	Long: `dbuf stores dependently-typed rows in a paged file, planned and
executed through a pull-based operator tree.

Run with a script file argument to execute its statements and exit, or
with no argument to start an interactive prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON})

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}

		eng, err := engine.Open(cfg)
		if err != nil {
			return fmt.Errorf("open engine: %w", err)
		}
		defer func() {
			if err := eng.Close(); err != nil {
				log.Errorf("close engine", err)
			}
		}()

		if len(args) == 1 {
			return runScript(eng, args[0])
		}
		return runREPL(eng)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "dbuf.yaml", "path to a YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output logs in JSON format")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", dbmetrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server exited", err)
	}
}

func runScript(eng *engine.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	next := func() (string, bool) {
		if scanner.Scan() {
			return scanner.Text(), true
		}
		return "", false
	}

	for {
		text, ok, err := query.ReadStatement(next)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := executeText(eng, text); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func runREPL(eng *engine.Engine) error {
	reader := bufio.NewReader(os.Stdin)
	next := func() (string, bool) {
		fmt.Print("dbuf> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", false
		}
		return line, true
	}

	for {
		text, ok, err := query.ReadStatement(next)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if !ok {
			return nil
		}
		if err := executeText(eng, text); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func executeText(eng *engine.Engine, text string) error {
	stmt, err := query.Parse(text)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	cmd, err := query.Translate(stmt, eng.Types)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	return eng.Execute(cmd, func(line string) {
		fmt.Println(line)
	})
}
