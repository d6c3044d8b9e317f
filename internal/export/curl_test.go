package export

import (
	"strings"
	"testing"

	"github.com/sadopc/gopost/internal/core/request"
)

func TestAsCurl_GET(t *testing.T) {
	d := request.Draft{
		Method:  "GET",
		URI:     "https://api.example.com/users",
		Headers: []request.Header{{Key: "Accept", Value: "application/json"}, {Key: " ", Value: "x"}},
		Body:    "ignored",
	}

	result := AsCurl(d)
	want := `curl -H 'Accept: application/json' 'https://api.example.com/users'`
	if result != want {
		t.Errorf("got  %s\nwant %s", result, want)
	}
}

func TestAsCurl_POST(t *testing.T) {
	d := request.Draft{
		Method:  "post",
		URI:     "https://api.example.com/users",
		Headers: []request.Header{{Key: "Content-Type", Value: "application/json"}},
		Body:    `{ "name": "test" }`,
	}

	result := AsCurl(d)
	if !strings.Contains(result, "-X POST") {
		t.Error("should have -X POST")
	}
	if !strings.Contains(result, `-d '{"name":"test"}'`) {
		t.Errorf("should contain compacted body, got: %s", result)
	}
}

func TestAsCurl_QuotesSingleQuotes(t *testing.T) {
	d := request.Draft{Method: "PUT", URI: "http://a", Body: "it's"}
	result := AsCurl(d)
	if !strings.Contains(result, `-d 'it'\''s'`) {
		t.Errorf("single quote not escaped: %s", result)
	}
}

func TestAsCurl_DeleteHasNoBody(t *testing.T) {
	result := AsCurl(request.Draft{Method: "DELETE", URI: "http://a/1", Body: "x"})
	if strings.Contains(result, "-d") {
		t.Errorf("DELETE should not carry a body: %s", result)
	}
	if !strings.Contains(result, "-X DELETE") {
		t.Errorf("missing method: %s", result)
	}
}
