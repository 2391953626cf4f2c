package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	gojson "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	shapematch "github.com/reoring/shapematch"
	"github.com/reoring/shapematch/oasimport"
	"github.com/reoring/shapematch/source"
)

const (
	exitOK       = 0
	exitNoMatch  = 1
	exitUsageErr = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsageErr
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdin, stdout, stderr)
	case "jsonschema":
		return jsonSchemaCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return exitUsageErr
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "shapematch CLI\n\nUsage:\n  shapematch check -schema decl.yaml [-root Name] [-in doc.json] [-yaml] [-pretty] [-v] [-dump]\n  shapematch jsonschema -schema decl.yaml [-root Name]\n\nExit codes: 0 matched, 1 no match, 2 usage or I/O error.")
}

func checkCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		schemaPath, root, in string
		asYAML, pretty       bool
		verbose, dump        bool
		maxDepth             int
		keepLast             bool
	)
	fs.StringVar(&schemaPath, "schema", "", "declaration file (OpenAPI YAML or JSON)")
	fs.StringVar(&root, "root", "", "components/schemas entry to check against")
	fs.StringVar(&in, "in", "", "document to check (stdin when empty)")
	fs.BoolVar(&asYAML, "yaml", false, "parse the document as YAML")
	fs.BoolVar(&pretty, "pretty", false, "indent the output even when stdout is not a terminal")
	fs.BoolVar(&verbose, "v", false, "enable debug logs")
	fs.BoolVar(&dump, "dump", false, "dump the match result tree to stderr")
	fs.IntVar(&maxDepth, "max-depth", 0, "nesting limit for matching and decoding (0: defaults)")
	fs.BoolVar(&keepLast, "keep-last-dup", false, "keep the last of duplicate keys instead of failing")
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsageErr
	}

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment(zap.ErrorOutput(zapcore.AddSync(stderr)))
		if err == nil {
			logger = l
		}
	}
	defer func() { _ = logger.Sync() }()

	cand, err := loadCandidate(schemaPath, root, logger)
	if err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}

	data, err := readInput(in, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}
	var opts []source.Option
	if maxDepth > 0 {
		opts = append(opts, source.WithMaxDepth(maxDepth))
	}
	if keepLast {
		opts = append(opts, source.WithDuplicateKeys(source.DuplicateKeepLast))
	}
	var v shapematch.Value
	if asYAML || isYAMLPath(in) {
		v, err = source.YAML(data, opts...)
	} else {
		v, err = source.JSON(data, opts...)
	}
	if err != nil {
		printIssues(stderr, err)
		return exitUsageErr
	}

	ctx := shapematch.WithLogger(context.Background(), logger)
	if maxDepth > 0 {
		ctx = shapematch.WithMaxDepth(ctx, maxDepth)
	}
	r, err := shapematch.Validate(ctx, cand, v)
	if dump && r != nil {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, MaxDepth: 8}
		cfg.Fdump(stderr, r)
	}
	if err != nil {
		printIssues(stderr, err)
		return exitNoMatch
	}
	out, err := shapematch.Deserialize(ctx, r)
	if err != nil {
		printIssues(stderr, err)
		return exitNoMatch
	}
	if err := writeJSON(stdout, out, pretty || isTerminal(stdout)); err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}
	return exitOK
}

func jsonSchemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var schemaPath, root string
	fs.StringVar(&schemaPath, "schema", "", "declaration file (OpenAPI YAML or JSON)")
	fs.StringVar(&root, "root", "", "components/schemas entry to project")
	if err := fs.Parse(args); err != nil {
		return exitUsageErr
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsageErr
	}
	cand, err := loadCandidate(schemaPath, root, zap.NewNop())
	if err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}
	s, err := cand.JSONSchema()
	if err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}
	if err := writeJSON(stdout, s, true); err != nil {
		fmt.Fprintf(stderr, "shapematch: %v\n", err)
		return exitUsageErr
	}
	return exitOK
}

func loadCandidate(path, root string, logger *zap.Logger) (shapematch.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := oasimport.Options{Root: root}
	var (
		c    shapematch.Candidate
		diag oasimport.Diag
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c, diag, err = oasimport.ImportJSON(data, oasimport.Registry{}, opts)
	} else {
		c, diag, err = oasimport.ImportYAML(data, oasimport.Registry{}, opts)
	}
	if diag != nil {
		for _, w := range diag.Warnings() {
			logger.Debug("import warning", zap.String("schema", path), zap.String("warning", w))
		}
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("imported declaration", zap.String("schema", path), zap.String("candidate", c.Name()))
	return c, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func isYAMLPath(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(w io.Writer, v any, indent bool) error {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = gojson.MarshalIndent(v, "", "  ")
	} else {
		b, err = gojson.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printIssues(w io.Writer, err error) {
	iss, ok := shapematch.AsIssues(err)
	if !ok {
		fmt.Fprintf(w, "shapematch: %v\n", err)
		return
	}
	for _, it := range iss {
		line := fmt.Sprintf("%s %s: %s", it.Path, it.Code, it.Message)
		if it.Hint != "" {
			line += " (" + it.Hint + ")"
		}
		fmt.Fprintln(w, line)
	}
}
