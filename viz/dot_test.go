package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/archfinn-io/archfinn/dsl"
)

const sampleScript = `
NODE api { critical = true }
NODE db
EDGE api -> db : hard
EDGE db -> api
CONTROL breaker { type = circuit_breaker; guards = api -> db }
`

func TestDOT(t *testing.T) {
	script, err := dsl.Parse(sampleScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dot := DOT(script)

	if !strings.HasPrefix(dot, "digraph architecture {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	for _, want := range []string{
		`"api" [label="api", penwidth=2, color=red];`,
		`"db" [label="db"];`,
		`"api" -> "db" [style=bold, label="breaker"];`,
		`"db" -> "api" [style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestDOT_Deterministic(t *testing.T) {
	script, err := dsl.Parse(sampleScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if DOT(script) != DOT(script) {
		t.Error("repeated renders differ")
	}
}

func TestSaveDOT(t *testing.T) {
	script, err := dsl.Parse(`NODE a`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	path := filepath.Join(t.TempDir(), "arch.dot")
	if err := SaveDOT(script, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"a"`) {
		t.Errorf("unexpected file contents: %s", data)
	}
}
