package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunUnchanged(t *testing.T) {
	assert := assert.New(t)

	code, stdout, stderr := runCmd("1000000", "1000000")
	assert.Equal(exitOK, code)
	assert.Empty(stderr)
	assert.Equal("pr_size=976.6KB\nmain_size=976.6KB\ndiff=0B\ndiff_bytes=0\npercent=0.0%\nsignificant=false\n", stdout)
}

func TestRunFlagsAfterPositionals(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCmd("1100000", "1000000", "--threshold-percent", "5.0")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, "diff=+97.7KB\n")
	assert.Contains(stdout, "percent=+10.0%\n")
	assert.Contains(stdout, "significant=true\n")
}

func TestRunThresholds(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCmd("--threshold-bytes", "100000", "--threshold-percent", "10.5", "1100000", "1000000")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, "significant=false\n")

	code, stdout, _ = runCmd("--threshold-bytes", "499", "500", "0")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, "percent=+0.0%\n")
	assert.Contains(stdout, "significant=true\n")
}

func TestRunNegativeAfterDashes(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runCmd("--", "-5", "10")
	assert.Equal(exitOK, code)
	assert.Contains(stdout, "pr_size=-5B\n")
	assert.Contains(stdout, "diff=-15B\n")
	assert.Contains(stdout, "diff_bytes=-15\n")
	assert.Contains(stdout, "percent=-150.0%\n")
}

func TestRunUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"no arguments", nil, "expected 2 arguments"},
		{"one argument", []string{"100"}, "expected 2 arguments"},
		{"three arguments", []string{"1", "2", "3"}, "expected 2 arguments"},
		{"non-numeric pr_size", []string{"big", "100"}, `invalid pr_size "big"`},
		{"non-numeric main_size", []string{"100", "1.5"}, `invalid main_size "1.5"`},
		{"bad threshold-bytes", []string{"--threshold-bytes", "abc", "1", "2"}, "threshold-bytes"},
		{"bad threshold-percent", []string{"--threshold-percent", "five", "1", "2"}, "threshold-percent"},
		{"unknown flag", []string{"--nope", "1", "2"}, "unknown flag"},
		{"unknown format", []string{"--format", "xml", "1", "2"}, "unknown output format"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, stdout, stderr := runCmd(c.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, c.msg)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestRunGithubOutputAppends(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	code, stdout, _ := runCmd("1000000", "1000000", "--github-output", path)
	assert.Equal(exitOK, code)
	assert.Empty(stdout)

	code, stdout, _ = runCmd("1100000", "1000000", "--github-output", path)
	assert.Equal(exitOK, code)
	assert.Empty(stdout)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(
		"pr_size=976.6KB\nmain_size=976.6KB\ndiff=0B\ndiff_bytes=0\npercent=0.0%\nsignificant=false\n"+
			"pr_size=1.0MB\nmain_size=976.6KB\ndiff=+97.7KB\ndiff_bytes=100000\npercent=+10.0%\nsignificant=true\n",
		string(b))
}

func TestRunGithubOutputUnwritable(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "missing", "out.txt")

	code, stdout, stderr := runCmd("1", "2", "--github-output", path)
	assert.Equal(exitError, code)
	assert.Empty(stdout)
	assert.Contains(stderr, "failed to open output file")
	assert.NotContains(stderr, "Usage:")
}

func TestRunGithubOutputRequiresKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	code, _, stderr := runCmd("1", "2", "--github-output", path, "--format", "json")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "only supports the kv format")
	assert.NoFileExists(t, path)
}

func TestRunJSONFormat(t *testing.T) {
	code, stdout, _ := runCmd("--format", "json", "2048", "1024")
	require.Equal(t, exitOK, code)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &m))
	assert.Equal(t, "2.0KB", m["pr_size"])
	assert.Equal(t, "+1.0KB", m["diff"])
	assert.Equal(t, "+100.0%", m["percent"])
	assert.Equal(t, true, m["significant"])
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCmd("--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, version)
}

func TestRunHelp(t *testing.T) {
	code, stdout, _ := runCmd("--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "--threshold-percent")
	assert.Contains(t, stdout, "--github-output")
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	assert := assert.New(t)

	code, stdout, stderr := runCmd("-vv", "1100000", "1000000")
	assert.Equal(exitOK, code)
	assert.Contains(stderr, "computed size diff")
	assert.False(strings.Contains(stdout, "computed size diff"))
	assert.Len(strings.Split(strings.TrimSuffix(stdout, "\n"), "\n"), 6)
}

func TestVersionStringRelease(t *testing.T) {
	defer func(v, r string) { version, release = v, r }(version, release)
	version, release = "1.2.3", "true"
	assert.Equal(t, "1.2.3", versionString())
}
