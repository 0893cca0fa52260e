package version

import (
	"regexp"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestVersionDefaults(t *testing.T) {
	// Color codes depend on the terminal, so compare the stripped text.
	plain := ansiSeq.ReplaceAllString(Version, "")
	be.True(t, regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(plain))
	be.True(t, strings.HasSuffix(plain, "-dev"))
}

func TestBuildMetadataDefaultsEmpty(t *testing.T) {
	be.Equal(t, GitCommit, "")
	be.Equal(t, GitMessage, "")
	be.Equal(t, BuildDate, "")
}
