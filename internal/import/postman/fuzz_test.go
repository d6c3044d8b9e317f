package postman

import (
	"errors"
	"testing"
)

func FuzzParse(f *testing.F) {
	f.Add([]byte(`{
		"info": {"name": "Test Collection"},
		"item": [
			{
				"name": "Users",
				"item": [
					{
						"name": "Get Users",
						"request": {
							"method": "GET",
							"header": [{"key": "Accept", "value": "application/json"}],
							"url": {"raw": "https://api.example.com/users?page=1"}
						}
					},
					{
						"name": "Create User",
						"request": {
							"method": "POST",
							"body": {"mode": "raw", "raw": "{\"name\":\"John\"}"},
							"url": "https://api.example.com/users"
						}
					}
				]
			}
		]
	}`))
	f.Add([]byte(`{"info":{"name":"Minimal"},"item":[]}`))
	f.Add([]byte(`{"info":{"name":"Ghost"},"item":[{"name":"Ghost"}]}`))
	f.Add([]byte(`{"info":{"name":"H"},"item":[{"request":{"header":"A: b"}}]}`))
	f.Add([]byte(`not json`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"info":{},"item":[]}`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		col, err := Parse(data)
		if err != nil {
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		if col == nil {
			t.Fatal("Parse returned nil collection without error")
		}
		if col.Name == "" {
			t.Fatal("Parse returned collection with empty name")
		}
		for _, r := range col.Requests {
			if r.Method == "" {
				t.Fatalf("request %q has empty method", r.Name)
			}
			if r.ID.IsZero() {
				t.Fatalf("request %q has no id", r.Name)
			}
		}
	})
}
