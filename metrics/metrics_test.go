package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	Invocations.WithLabelValues("get_token", "ok").Inc()
	Aborts.WithLabelValues("65546").Inc()

	path := filepath.Join(t.TempDir(), "swap.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("failed to write metrics: %v", err)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`swapproxy_invocations_total{method="get_token",outcome="ok"}`,
		`swapproxy_aborts_total{code="65546"}`,
	} {
		if !strings.Contains(string(blob), want) {
			t.Fatalf("metric %s missing from output:\n%s", want, blob)
		}
	}
}
