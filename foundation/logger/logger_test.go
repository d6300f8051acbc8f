package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_EventHandler(t *testing.T) {
	t.Log("Given the need to log blockchain events.")
	{
		path := filepath.Join(t.TempDir(), "node.log")

		log, err := logger.New("TEST", path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a logger: %v", failed, err)
		}

		var got []string
		ev := logger.NewEventHandler(log, func(s string) { got = append(got, s) })

		ev("state: commit: blk[%d]", 7)
		ev("worker: shutdown: started")
		log.Sync()

		if len(got) != 2 || got[0] != "state: commit: blk[7]" || got[1] != "worker: shutdown: started" {
			t.Fatalf("\t%s\tShould format events for the sinks: %v", failed, got)
		}
		t.Logf("\t%s\tShould format events for the sinks.", success)

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the log: %v", failed, err)
		}

		for _, want := range []string{`"service":"TEST"`, `"msg":"state: commit: blk[7]"`, `"ts":`} {
			if !strings.Contains(string(content), want) {
				t.Fatalf("\t%s\tShould contain %s in:\n%s", failed, want, content)
			}
		}
		t.Logf("\t%s\tShould write structured log lines.", success)
	}
}
