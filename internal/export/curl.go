// Package export renders requests for use outside gopost.
package export

import (
	"strings"

	"github.com/sadopc/gopost/internal/core/request"
)

// AsCurl converts a draft to a curl command string. Header order follows the
// draft; blank header keys are skipped and bodies are only emitted for
// methods that send one.
func AsCurl(d request.Draft) string {
	parts := []string{"curl"}

	method := strings.ToUpper(strings.TrimSpace(d.Method))
	if method != "" && method != "GET" {
		parts = append(parts, "-X", method)
	}

	for _, h := range d.Headers {
		key := strings.TrimSpace(h.Key)
		if key == "" {
			continue
		}
		parts = append(parts, "-H", quote(key+": "+h.Value))
	}

	if request.HasBody(method) {
		if body, _ := d.EncodeBody(); len(body) > 0 {
			parts = append(parts, "-d", quote(string(body)))
		}
	}

	parts = append(parts, quote(d.URI))
	return strings.Join(parts, " ")
}

// quote wraps s in single quotes for POSIX shells.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
