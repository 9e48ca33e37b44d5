// Command oasassert replays recorded HTTP exchanges against an OpenAPI
// document and reports conformance failures.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/erraggy/oasassert"
	"github.com/erraggy/oasassert/conform"
	"github.com/erraggy/oasassert/message"
	"github.com/erraggy/oasassert/spec"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		fmt.Printf("oasassert v%s\n", oasassert.Version())
	case "help", "-h", "--help":
		printUsage()
	case "check":
		if err := handleCheck(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`oasassert - validate recorded HTTP exchanges against an OpenAPI document

Usage:
  oasassert <command> [flags]

Commands:
  check      Replay a transcript of exchanges and report conformance
  version    Print version information
  help       Print this help

Examples:
  oasassert check -schema openapi.yaml -transcript exchanges.json
  oasassert check -schema openapi.yaml -transcript exchanges.json -strict`)
}

// checkFlags contains flags for the check command
type checkFlags struct {
	schemaPath     string
	transcriptPath string
	strict         bool
	requestsOnly   bool
}

func setupCheckFlags() (*flag.FlagSet, *checkFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &checkFlags{}

	fs.StringVar(&flags.schemaPath, "schema", "", "path to the OpenAPI document (required)")
	fs.StringVar(&flags.transcriptPath, "transcript", "", "path to the JSON transcript of exchanges (required)")
	fs.BoolVar(&flags.strict, "strict", false, "enable strict checking (unknown parameters rejected, warnings fail)")
	fs.BoolVar(&flags.requestsOnly, "requests-only", false, "check requests only, skip responses")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasassert check -schema <file> -transcript <file> [flags]\n\n")
		_, _ = fmt.Fprintf(output, "Replay recorded HTTP exchanges against an OpenAPI document.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nThe transcript is a JSON array of exchanges:\n")
		_, _ = fmt.Fprintf(output, `  [{"request": {"method": "GET", "uri": "/pets/1", "headers": {...}, "body": ""},`+"\n")
		_, _ = fmt.Fprintf(output, `    "response": {"status": 200, "headers": {...}, "body": "{...}"}}]`+"\n")
	}

	return fs, flags
}

// wireExchange is one transcript entry.
type wireExchange struct {
	Request  wireRequest   `json:"request"`
	Response *wireResponse `json:"response,omitempty"`
}

type wireRequest struct {
	Method  string      `json:"method"`
	URI     string      `json:"uri"`
	Headers http.Header `json:"headers,omitempty"`
	Body    string      `json:"body,omitempty"`
}

type wireResponse struct {
	Status  int         `json:"status"`
	Headers http.Header `json:"headers,omitempty"`
	Body    string      `json:"body,omitempty"`
}

// exchangeReport is one entry of the rendered YAML report.
type exchangeReport struct {
	Index     int      `yaml:"index"`
	Method    string   `yaml:"method"`
	Path      string   `yaml:"path"`
	Operation string   `yaml:"operation,omitempty"`
	Status    int      `yaml:"status,omitempty"`
	Valid     bool     `yaml:"valid"`
	Errors    []string `yaml:"errors,omitempty"`
	Warnings  []string `yaml:"warnings,omitempty"`
}

type checkReport struct {
	Schema    string           `yaml:"schema"`
	Exchanges int              `yaml:"exchanges"`
	Failed    int              `yaml:"failed"`
	Results   []exchangeReport `yaml:"results"`
}

func handleCheck(args []string) error {
	fs, flags := setupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if flags.schemaPath == "" || flags.transcriptPath == "" {
		fs.Usage()
		return fmt.Errorf("both -schema and -transcript are required")
	}

	doc, err := spec.Load(flags.schemaPath)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	validator, err := conform.New(doc, conform.WithStrictMode(flags.strict))
	if err != nil {
		return fmt.Errorf("building validator: %w", err)
	}

	exchanges, err := loadTranscript(flags.transcriptPath)
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}

	report := checkReport{
		Schema:    flags.schemaPath,
		Exchanges: len(exchanges),
	}

	for i, exchange := range exchanges {
		req := message.FromWire(
			exchange.Request.Method,
			exchange.Request.URI,
			exchange.Request.Headers,
			[]byte(exchange.Request.Body),
		)

		entry := exchangeReport{
			Index:  i,
			Method: req.Method,
			Path:   req.Path,
		}

		result := validator.CheckRequest(req)
		entry.Operation = result.MatchedPath
		collectFindings(&entry, result)

		if exchange.Response != nil && !flags.requestsOnly {
			resp := message.ResponseFromWire(
				exchange.Response.Status,
				exchange.Response.Headers,
				[]byte(exchange.Response.Body),
			)
			entry.Status = resp.StatusCode

			respResult := validator.CheckResponse(req, resp)
			collectFindings(&entry, respResult)
		}

		entry.Valid = len(entry.Errors) == 0
		if !entry.Valid {
			report.Failed++
		}
		report.Results = append(report.Results, entry)
	}

	rendered, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	fmt.Print(string(rendered))

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d exchanges failed conformance", report.Failed, report.Exchanges)
	}
	return nil
}

func collectFindings(entry *exchangeReport, result *conform.Result) {
	entry.Errors = append(entry.Errors, result.Violations()...)
	for _, w := range result.Warnings {
		entry.Warnings = append(entry.Warnings, w.Path+": "+w.Message)
	}
}

func loadTranscript(path string) ([]wireExchange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var exchanges []wireExchange
	if err := json.Unmarshal(data, &exchanges); err != nil {
		return nil, fmt.Errorf("malformed transcript %s: %w", path, err)
	}
	return exchanges, nil
}
