package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WideCSV renders a wide-format report: a label cell followed by "<Month> <d>"
// day headers, then one line per metric. The value of metric i on day d is
// (i+1)*100+d, so every cell of the long output is predictable.
func WideCSV(month time.Month, days int, metrics ...string) string {
	var b strings.Builder
	b.WriteString(month.String()[:3])
	for d := 1; d <= days; d++ {
		fmt.Fprintf(&b, ",%s %d", month, d)
	}
	b.WriteString("\n")

	for i, m := range metrics {
		b.WriteString(m)
		for d := 1; d <= days; d++ {
			fmt.Fprintf(&b, ",%d", (i+1)*100+d)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteWideCSV writes WideCSV output to dir/name and returns the path
func WriteWideCSV(t *testing.T, dir, name string, month time.Month, days int, metrics ...string) string {
	t.Helper()
	return WriteFile(t, dir, name, WideCSV(month, days, metrics...))
}
