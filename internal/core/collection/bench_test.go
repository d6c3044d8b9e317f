package collection

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sadopc/gopost/internal/core/ident"
	"github.com/sadopc/gopost/internal/core/request"
)

func generateWorkspaceYAML(requests int) string {
	var sb strings.Builder
	sb.WriteString("name: Large API\nversion: \"1\"\nrequests:\n")
	for r := 0; r < requests; r++ {
		fmt.Fprintf(&sb, "  - name: Request_%d\n", r)
		switch r % 3 {
		case 0:
			sb.WriteString("    method: GET\n")
		case 1:
			sb.WriteString("    method: POST\n")
			fmt.Fprintf(&sb, "    body: '{\"key\":\"value_%d\"}'\n", r)
		default:
			sb.WriteString("    method: PUT\n")
		}
		fmt.Fprintf(&sb, "    uri: \"https://api.example.com/resource_%d\"\n", r)
		sb.WriteString("    headers:\n      - { key: Accept, value: application/json }\n")
	}
	return sb.String()
}

func BenchmarkLoadFromBytes(b *testing.B) {
	for _, n := range []int{1, 50, 500} {
		data := []byte(generateWorkspaceYAML(n))
		b.Run(fmt.Sprintf("%d_requests", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := LoadFromBytes(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

type benchSource struct {
	cols []Collection
	reqs []request.Draft
}

func (s benchSource) ListCollections(context.Context) ([]Collection, error) { return s.cols, nil }

func (s benchSource) ListRequests(context.Context, ident.ID) ([]request.Draft, error) {
	return s.reqs, nil
}

func BenchmarkTreeRows(b *testing.B) {
	src := benchSource{}
	for c := 0; c < 20; c++ {
		src.cols = append(src.cols, Collection{ID: ident.ID(fmt.Sprint(c)), Name: fmt.Sprintf("col-%d", c)})
	}
	for r := 0; r < 25; r++ {
		src.reqs = append(src.reqs, request.New(fmt.Sprintf("req-%d", r), "GET", "https://example.com"))
	}

	ctx := context.Background()
	tree := NewTree(src, 0, nil)
	if _, err := tree.ListCollections(ctx); err != nil {
		b.Fatal(err)
	}
	for _, c := range src.cols {
		if _, err := tree.Expand(ctx, c.ID); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Rows()
	}
}
