// Package curl reads curl command lines into request drafts.
package curl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/gopost/internal/core/request"
)

// ErrNoURL is returned for commands without a target.
var ErrNoURL = errors.New("no URL found in curl command")

// Parse converts a curl command into a draft. Repeated -d values are joined
// with '&' like curl does, and data without -X turns the method into POST.
// Flags that only affect curl's own output are ignored.
func Parse(input string) (request.Draft, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return request.Draft{}, fmt.Errorf("parsing curl: empty input")
	}
	input = strings.ReplaceAll(input, "\\\r\n", " ")
	input = strings.ReplaceAll(input, "\\\n", " ")

	args := tokenize(input)
	if len(args) > 0 && strings.EqualFold(args[0], "curl") {
		args = args[1:]
	}

	d := request.New("", "GET", "")
	var (
		data           []string
		explicitMethod bool
	)

	next := func(i *int) (string, bool) {
		*i++
		if *i >= len(args) {
			return "", false
		}
		return args[*i], true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-X", "--request":
			if v, ok := next(&i); ok {
				d.Method = strings.ToUpper(v)
				explicitMethod = true
			}
		case "-H", "--header":
			if v, ok := next(&i); ok {
				if h, err := request.ParseHeaderLine(v); err == nil {
					d.Headers = append(d.Headers, h)
				}
			}
		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			if v, ok := next(&i); ok {
				data = append(data, v)
			}
		case "--json":
			if v, ok := next(&i); ok {
				data = append(data, v)
				d.Headers = append(d.Headers,
					request.Header{Key: "Content-Type", Value: "application/json"},
					request.Header{Key: "Accept", Value: "application/json"})
			}
		case "-u", "--user":
			if v, ok := next(&i); ok {
				token := base64.StdEncoding.EncodeToString([]byte(v))
				d.Headers = append(d.Headers, request.Header{Key: "Authorization", Value: "Basic " + token})
			}
		case "-A", "--user-agent":
			if v, ok := next(&i); ok {
				d.Headers = append(d.Headers, request.Header{Key: "User-Agent", Value: v})
			}
		case "-e", "--referer":
			if v, ok := next(&i); ok {
				d.Headers = append(d.Headers, request.Header{Key: "Referer", Value: v})
			}
		case "--url":
			if v, ok := next(&i); ok {
				d.URI = v
			}
		case "-o", "--output", "-m", "--max-time", "--connect-timeout", "-w", "--write-out":
			next(&i)
		case "-I", "--head":
			d.Method = "HEAD"
			explicitMethod = true
		default:
			if !strings.HasPrefix(arg, "-") && d.URI == "" {
				d.URI = arg
			}
		}
	}

	if d.URI == "" {
		return request.Draft{}, ErrNoURL
	}
	if len(data) > 0 {
		d.Body = strings.Join(data, "&")
		if !explicitMethod {
			d.Method = "POST"
		}
	}
	return d, nil
}

// tokenize splits a POSIX shell command line, honouring single quotes,
// double quotes and backslash escapes.
func tokenize(input string) []string {
	var (
		tokens   []string
		current  strings.Builder
		started  bool
		inSingle bool
		inDouble bool
		escaped  bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
			started = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case (r == ' ' || r == '\t' || r == '\n') && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}
