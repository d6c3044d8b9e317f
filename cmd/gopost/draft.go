package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/gopost/internal/core/request"
	"github.com/sadopc/gopost/internal/import/curl"
)

// draftFlags are the flags shared by commands that build a request.
type draftFlags struct {
	method  string
	headers []string
	data    string
	name    string
	from    string
	curl    string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, "method", "X", "", "HTTP method (default GET)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `Header as "Key: Value" (repeatable)`)
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Request body; @file reads a file, @- reads stdin")
	cmd.Flags().StringVar(&f.name, "name", "", "Request name")
	cmd.Flags().StringVar(&f.from, "from", "", "Read the request from a JSON file in backend format (- for stdin)")
	cmd.Flags().StringVar(&f.curl, "from-curl", "", "Read the request from a curl command; @file reads a file, @- reads stdin")
	cmd.MarkFlagsMutuallyExclusive("from", "from-curl")
}

// build assembles the draft. Values from --from or --from-curl come first
// and explicit flags override them.
func (f *draftFlags) build(stdin io.Reader, uri string) (request.Draft, error) {
	d := request.New(f.name, "GET", uri)
	switch {
	case f.curl != "":
		line, err := readData(stdin, f.curl)
		if err != nil {
			return d, err
		}
		if d, err = curl.Parse(line); err != nil {
			return d, err
		}
		if f.name != "" {
			d.Name = f.name
		}
		if uri != "" {
			d.URI = uri
		}
	case f.from != "":
		data, err := readInput(stdin, f.from)
		if err != nil {
			return d, err
		}
		var w request.Wire
		if err := json.Unmarshal(data, &w); err != nil {
			return d, fmt.Errorf("parsing %s: %w", f.from, err)
		}
		d = request.ToDraft(w)
		if f.name != "" {
			d.Name = f.name
		}
		if uri != "" {
			d.URI = uri
		}
	}
	if f.method != "" {
		d.Method = strings.ToUpper(f.method)
	}
	for _, line := range f.headers {
		h, err := request.ParseHeaderLine(line)
		if err != nil {
			return d, err
		}
		d.Headers = append(d.Headers, h)
	}
	if f.data != "" {
		body, err := readData(stdin, f.data)
		if err != nil {
			return d, err
		}
		d.Body = body
		// Like curl, data without an explicit method means POST.
		if f.method == "" && f.from == "" && f.curl == "" {
			d.Method = "POST"
		}
	}
	return d, nil
}

func readData(stdin io.Reader, arg string) (string, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	data, err := readInput(stdin, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
