package htmltable_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cybergodev/htmltable"
)

func TestFindTablesBatch(t *testing.T) {
	t.Parallel()

	p := htmltable.NewWithDefaults()
	defer p.Close()

	t.Run("empty batch", func(t *testing.T) {
		results, err := p.FindTablesBatch(nil, htmltable.All())
		if err != nil {
			t.Fatalf("FindTablesBatch(nil) failed: %v", err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("FindTablesBatch(nil) = %v, want empty slice", results)
		}
	})

	t.Run("results keep input order", func(t *testing.T) {
		inputs := []string{htmlTwoTables, tableTHTD, htmlNoTable, htmlNested, tableEmpty}
		results, err := p.FindTablesBatch(inputs, htmltable.All())
		if err != nil {
			t.Fatalf("FindTablesBatch() failed: %v", err)
		}
		want := []int{2, 1, 0, 2, 1}
		for i, n := range want {
			if len(results[i]) != n {
				t.Errorf("results[%d] = %d tables, want %d", i, len(results[i]), n)
			}
		}
	})
}

func TestFindTablesBatchPartialFailure(t *testing.T) {
	t.Parallel()

	config := htmltable.DefaultConfig()
	config.MaxInputSize = 200
	config.WorkerPoolSize = 2
	p, err := htmltable.New(config)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	tooLarge := "<table>" + strings.Repeat("<tr><td>x</td></tr>", 20) + "</table>"
	results, err := p.FindTablesBatch([]string{tableTHTD, tooLarge, tableTH}, htmltable.All())
	if !errors.Is(err, htmltable.ErrInputTooLarge) {
		t.Fatalf("FindTablesBatch() error = %v, want ErrInputTooLarge", err)
	}
	if !strings.Contains(err.Error(), "partial failure (2/3 succeeded)") {
		t.Errorf("error = %q, want partial failure summary", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if len(results[0]) != 1 || results[1] != nil || len(results[2]) != 1 {
		t.Errorf("results = [%d %v %d], want [1 nil 1]", len(results[0]), results[1], len(results[2]))
	}

	_, err = p.FindTablesBatch([]string{tooLarge, tooLarge}, htmltable.All())
	if err == nil || !strings.Contains(err.Error(), "all 2 items failed") {
		t.Errorf("error = %v, want all items failed", err)
	}
}

func TestFindTablesBatchFiles(t *testing.T) {
	t.Parallel()

	p := htmltable.NewWithDefaults()
	defer p.Close()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.html")
	if err := os.WriteFile(good, []byte(htmlTwoTables), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.html")

	results, err := p.FindTablesBatchFiles([]string{good, missing}, htmltable.WithID("second"))
	if err == nil {
		t.Fatal("FindTablesBatchFiles() error = nil, want failure for missing file")
	}
	if !strings.Contains(err.Error(), "missing.html") {
		t.Errorf("error = %q, want it to name the failing file", err)
	}
	if len(results[0]) != 1 || results[0][0].ID() != "second" {
		t.Errorf("results[0] = %d tables, want the second table", len(results[0]))
	}
}
