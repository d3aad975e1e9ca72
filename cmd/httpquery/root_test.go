package main

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDoc = `
foo: bar
user:
  name: Bob
  note: null
  children:
    - name: Bobby
    - name: John Smith
`

const userQuery = "foo=bar&user[name]=Bob&user[note]=&user[children][0][name]=Bobby&user[children][1][name]=John+Smith"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	// cobra falls back to os.Args when given nil
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBuildFromStdin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"Default", nil, userQuery + "\n"},
		{"Dash", []string{"-"}, userQuery + "\n"},
		{"RFC3986", []string{"--encoding", "rfc3986"}, strings.ReplaceAll(userQuery, "+", "%20") + "\n"},
		{"Omit null", []string{"--omit-null"}, strings.Replace(userQuery, "&user[note]=", "", 1) + "\n"},
		{"Escape brackets", []string{"--escape-brackets", "--omit-null"}, "foo=bar&user%5Bname%5D=Bob&user%5Bchildren%5D%5B0%5D%5Bname%5D=Bobby&user%5Bchildren%5D%5B1%5D%5Bname%5D=John+Smith\n"},
		{"URL", []string{"--url", "example.com/api", "--scheme", "http"}, "http://example.com/api?" + userQuery + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, userDoc, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestNumericPrefixAndBooleans(t *testing.T) {
	out, _, err := execute(t, `{"0": "zero", "flags": {"1": true, "2": false}}`, "--numeric-prefix", "n_", "--php-bools")
	require.NoError(t, err)
	assert.Equal(t, "n_0=zero&flags[1]=1&flags[2]=0\n", out)
}

func TestBuildFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"b": "2", "a": "1"}`), 0o644))

	out, _, err := execute(t, "", in)
	require.NoError(t, err)
	assert.Equal(t, "b=2&a=1\n", out)

	target := filepath.Join(dir, "query.txt")
	out, _, err = execute(t, "", in, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "b=2&a=1\n", string(written))

	_, _, err = execute(t, "", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestOutputFileErrors(t *testing.T) {
	_, _, err := execute(t, userDoc, "-o", filepath.Join(t.TempDir(), "missing", "query.txt"))
	assert.ErrorContains(t, err, "failed to create file")

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("/dev/full not available")
	}
	_, _, err = execute(t, userDoc, "-o", "/dev/full")
	assert.Error(t, err)
}

func TestPairs(t *testing.T) {
	out, _, err := execute(t, userDoc, "--pairs")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"foo = bar",
		"user[name] = Bob",
		"user[note] = (empty)",
		"user[children][0][name] = Bobby",
		"user[children][1][name] = John Smith",
	}, "\n")+"\n", out)
}

func TestCompressedBody(t *testing.T) {
	tests := []struct {
		name       string
		compress   string
		decompress func(r io.Reader) (io.Reader, error)
	}{
		{"Gzip", "gzip", func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
		{"Snappy", "snappy", func(r io.Reader) (io.Reader, error) { return snappy.NewReader(r), nil }},
		{"LZ4", "lz4", func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, userDoc, "--compress", tt.compress)
			require.NoError(t, err)

			r, err := tt.decompress(strings.NewReader(out))
			require.NoError(t, err)
			body, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, userQuery, string(body))
		})
	}
}

func TestVerboseLogging(t *testing.T) {
	out, stderr, err := execute(t, userDoc, "-v", "--json-log")
	require.NoError(t, err)
	assert.Equal(t, userQuery+"\n", out)
	assert.Contains(t, stderr, `"msg":"document decoded"`)
	assert.Contains(t, stderr, `"msg":"query built"`)
}

func TestInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"Encoding", []string{"--encoding", "rfc0"}, "unknown encoding"},
		{"Compression", []string{"--compress", "zip"}, "unsupported compression type"},
		{"Too many args", []string{"a", "b"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, userDoc, tt.args...)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestNotMapping(t *testing.T) {
	_, _, err := execute(t, "[1, 2, 3]")
	assert.ErrorContains(t, err, "root value must be a mapping")
}
