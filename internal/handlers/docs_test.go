package handlers

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"farmbeats_sheets/internal/service"

	"github.com/swaggo/swag"
)

var ginParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read swagger doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("swagger doc is not valid JSON: %v", err)
	}

	r := newTestRouter(&service.Service{})
	for _, route := range r.Routes() {
		if strings.HasPrefix(route.Path, "/swagger/") {
			continue
		}
		path := ginParam.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("%s %s is not documented", route.Method, path)
			continue
		}
		if _, ok := ops[strings.ToLower(route.Method)]; !ok {
			t.Errorf("%s %s: method not documented", route.Method, path)
		}
	}
}
