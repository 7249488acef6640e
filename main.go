package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jemit/internal/config"
	"github.com/mcncl/jemit/internal/encoder"
	"github.com/mcncl/jemit/internal/errors"
	"github.com/mcncl/jemit/internal/models"
	"github.com/mcncl/jemit/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string   `help:"Path to YAML config file. If not specified, searches for .jemit.yml." short:"c" type:"path"`
	Precision   *int     `help:"Digits after the decimal point for floats."`
	NonFinite   *string  `help:"Policy for NaN and infinities: sentinel or error." name:"non-finite"`
	Sentinel    *float64 `help:"Value substituted for non-finite floats under the sentinel policy."`
	KeyCase     *string  `help:"Rewrite field names to this case: none, snake, camel or pascal." name:"key-case"`
	Unicode     *string  `help:"String escaping granularity: bytes or runes."`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	kongParser := kong.Must(&CLI,
		kong.Name("jemit"),
		kong.Description("A tool to re-emit JSON records as deterministic compact JSON"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	_, err := kongParser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jemit version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err == nil {
		err = run(&Context{Debug: CLI.Debug || cfg.Dev.Debug, Config: cfg})
	}
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jemit --help\n")

		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: config file first,
// then command-line flag overrides, then a validation pass over the
// merged result.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.NewConfig()
	}

	// Flags beat the config file when given.
	if CLI.Precision != nil {
		cfg.Encoding.Precision = *CLI.Precision
	}
	if CLI.NonFinite != nil {
		cfg.Encoding.NonFinite = *CLI.NonFinite
	}
	if CLI.Sentinel != nil {
		cfg.Encoding.Sentinel = *CLI.Sentinel
	}
	if CLI.Unicode != nil {
		cfg.Encoding.Unicode = *CLI.Unicode
	}
	if CLI.KeyCase != nil {
		cfg.Naming.KeyCase = *CLI.KeyCase
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Parse JSON input into the record model
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	if ctx.Debug {
		fmt.Fprintf(os.Stderr, "Parsed root value of kind %s\n", doc.Root.Kind())
	}

	// 2. Encode deterministically
	enc := encoder.NewWithOptions(ctx.Config.EncoderOptions())
	out, err := enc.EncodeDocument(doc)
	if err != nil {
		return err
	}

	// 3. Output the result
	return writeOutput(out)
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes encoded JSON to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		// Write to file, no trailing newline: the encoding is the file
		err := os.WriteFile(CLI.Output, []byte(out), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Encoded JSON written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Println(out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "jemit Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// End of input
			jsonBuilder.WriteString(line)
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
