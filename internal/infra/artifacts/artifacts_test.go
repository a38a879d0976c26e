package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirSinkWritesNestedArtifacts(t *testing.T) {
	root := t.TempDir()
	sink, err := NewDirSink(root)
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), "run-1/chunk-0-2600.txt", []byte("chunk text")))

	raw, err := os.ReadFile(filepath.Join(root, "run-1", "chunk-0-2600.txt"))
	require.NoError(t, err)
	require.Equal(t, "chunk text", string(raw))
}

func TestDirSinkRejectsEscapingNames(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.txt", "/etc/passwd", "", "a/../../b"} {
		require.Error(t, sink.Write(context.Background(), name, []byte("x")), name)
	}
}

func TestNewDirSinkRequiresRoot(t *testing.T) {
	_, err := NewDirSink(" ")
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"https://acct.r2.cloudflarestorage.com":        "acct.r2.cloudflarestorage.com",
		"http://localhost:9000/":                       "localhost:9000",
		"localhost:9000":                               "localhost:9000",
		" https://minio.internal:9000/bucket/prefix  ": "minio.internal:9000",
	}
	for raw, want := range tests {
		require.Equal(t, want, sanitizeEndpoint(raw), raw)
	}
}

func TestS3ObjectKey(t *testing.T) {
	sink, err := NewS3Sink(S3Config{Endpoint: "http://localhost:9000", Bucket: "debug", Prefix: "/brevity/"}, nil)
	require.NoError(t, err)
	require.Equal(t, "brevity/run-1/summaries.txt", sink.objectKey("run-1/summaries.txt"))

	bare, err := NewS3Sink(S3Config{Endpoint: "http://localhost:9000", Bucket: "debug"}, nil)
	require.NoError(t, err)
	require.Equal(t, "summaries.txt", bare.objectKey("/summaries.txt"))

	_, err = NewS3Sink(S3Config{Endpoint: "http://localhost:9000"}, nil)
	require.Error(t, err)
}
