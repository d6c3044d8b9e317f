package curl

import "testing"

func FuzzParse(f *testing.F) {
	f.Add(`curl https://api.example.com/users`)
	f.Add(`curl -X POST -H 'Content-Type: application/json' -d '{"name":"test"}' https://api.example.com/users`)
	f.Add(`curl -u admin:secret https://api.example.com/private`)
	f.Add("curl \\\n  -X PUT \\\n  -d 'hello' \\\n  https://example.com")
	f.Add(`curl --json '{"a":1}' https://example.com`)
	f.Add(`curl -X`)
	f.Add(`curl -H`)
	f.Add(`'unclosed`)
	f.Add(``)

	f.Fuzz(func(t *testing.T, input string) {
		d, err := Parse(input)
		if err != nil {
			return
		}
		if d.URI == "" {
			t.Fatal("Parse returned a draft without a URL")
		}
		if d.Method == "" {
			t.Fatal("Parse returned a draft without a method")
		}
	})
}
