package iojson

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, draft{Name: "q1", TemplateID: "dsmm"}))

	assert.Equal(t, "{\n  \"name\": \"q1\",\n  \"template_id\": \"dsmm\"\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, math.NaN()))

	assert.Empty(t, out.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &body))
	assert.Equal(t, "error marshaling in iojson.Write", body["error"])
}

func TestWriteErrorTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteErrorTo(&buf, `task "x" not found`, map[string]any{"task_id": "x"}))

	var body Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body))
	assert.Equal(t, `task "x" not found`, body.Error)
	assert.Equal(t, "x", body.Data["task_id"])
}

func TestMarshalError_OmitsEmptyData(t *testing.T) {
	assert.Equal(t, "{\n  \"error\": \"boom\"\n}", MarshalError("boom", nil))
}

func TestFileReader_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"q1","template_id":"djcp"}`), 0o644))

	fr := &FileReader[draft]{fileFlagValue: path}
	assert.True(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, draft{Name: "q1", TemplateID: "djcp"}, got)
}

func TestFileReader_FromStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"piped","template_id":"grxxb"}`), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	fr := &FileReader[draft]{stdin: f}
	assert.False(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped", got.Name)
}

func TestFileReader_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"q1","template":"djcp"}`), 0o644))

	fr := &FileReader[draft]{fileFlagValue: path}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[draft]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
