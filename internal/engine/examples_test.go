package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// examplesFile mirrors testdata/examples.yml: a handful of tables seeded
// once, then a list of queries each checked against its expected
// projection. Every cell is already this dialect's textual surface form,
// so no type inference is needed the way a richer SQL engine would need.
type examplesFile struct {
	Tables map[string]struct {
		Cols []string   `yaml:"cols"`
		Rows [][]string `yaml:"rows"`
	} `yaml:"tables"`

	Queries []struct {
		ID       string `yaml:"id"`
		SQL      string `yaml:"sql"`
		Expected struct {
			Cols []string   `yaml:"cols"`
			Rows [][]string `yaml:"rows"`
		} `yaml:"expected"`
	} `yaml:"queries"`
}

func TestExamplesYAML(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "examples.yml"))
	if err != nil {
		t.Fatalf("reading testdata/examples.yml: %v", err)
	}
	var ex examplesFile
	if err := yaml.Unmarshal(b, &ex); err != nil {
		t.Fatalf("parsing testdata/examples.yml: %v", err)
	}

	path := filepath.Join(t.TempDir(), "examples.isentadb")
	e, db := newTestEngine(t, path)
	defer db.Close()

	for name, tbl := range ex.Tables {
		create := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(tbl.Cols, ", "))
		mustExecute(t, e, create)
		for _, row := range tbl.Rows {
			vals := make([]string, len(row))
			for i, v := range row {
				vals[i] = literalFor(v)
			}
			insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(vals, ", "))
			mustExecute(t, e, insert)
		}
	}

	for _, q := range ex.Queries {
		q := q
		t.Run(q.ID, func(t *testing.T) {
			res := mustExecute(t, e, q.SQL)
			if len(res.Columns) != len(q.Expected.Cols) {
				t.Fatalf("columns differ: expected %v, got %v", q.Expected.Cols, res.Columns)
			}
			for i, c := range q.Expected.Cols {
				if !strings.EqualFold(res.Columns[i], c) {
					t.Fatalf("column %d: expected %q, got %q", i, c, res.Columns[i])
				}
			}
			if len(res.Rows) != len(q.Expected.Rows) {
				t.Fatalf("row count differs: expected %d, got %d", len(q.Expected.Rows), len(res.Rows))
			}
			for i, want := range q.Expected.Rows {
				got := res.Rows[i]
				if len(got) != len(want) {
					t.Fatalf("row %d: expected %v, got %v", i, want, got)
				}
				for j := range want {
					if got[j] != want[j] {
						t.Fatalf("row %d column %d: expected %q, got %q", i, j, want[j], got[j])
					}
				}
			}
		})
	}
}

// literalFor renders a fixture cell as SQL literal text. Every value in
// this fixture is already textual; the only decision is whether it needs
// quoting, which depends on the value alone: all-digit values are left
// bare, everything else is single-quoted.
func literalFor(v string) string {
	if v == "" {
		return "NULL"
	}
	isNumeric := true
	for _, r := range v {
		if r < '0' || r > '9' {
			isNumeric = false
			break
		}
	}
	if isNumeric {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
