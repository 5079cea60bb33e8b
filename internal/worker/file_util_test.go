package worker

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewArchiveName_Pattern(t *testing.T) {
	name := NewArchiveName("runner1", "/tmp/out/result.txt")

	re := regexp.MustCompile(`^\d+_runner1_\d{6}_result\.txt\.gz$`)
	if !re.MatchString(name) {
		t.Fatalf("archive name %q does not match <unix>_<instance>_<counter>_<base>.gz", name)
	}
}

func TestNextCounter_Monotonic(t *testing.T) {
	a := NextCounter()
	b := NextCounter()
	if b != (a+1)%1_000_000 {
		t.Fatalf("counter not sequential: %d then %d", a, b)
	}
}

func TestBuildS3Key_Partitions(t *testing.T) {
	key := BuildS3Key("shorts-archive/", "1764721594_runner1_000003_result.txt.gz")

	re := regexp.MustCompile(`^shorts-archive/dt=\d{4}-\d{2}-\d{2}/hr=\d{2}/1764721594_runner1_000003_result\.txt\.gz$`)
	if !re.MatchString(key) {
		t.Fatalf("s3 key %q does not match <prefix>/dt=YYYY-MM-DD/hr=HH/<file>", key)
	}
	if strings.Contains(key, "//") {
		t.Fatalf("trailing slash in prefix must not double up: %q", key)
	}
}
