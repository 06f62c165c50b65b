package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ninebynine/internal/models"
)

func TestExport_SkipsFileThatCannotBeWritten(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "alice")
	sink := &Sink{writeFile: func(name string, data []byte, perm os.FileMode) error {
		if filepath.Base(name) == "11.sgf" {
			return errors.New("disk full")
		}
		return os.WriteFile(name, data, perm)
	}}

	n, err := sink.Export(context.Background(), []models.Artifact{
		{GameID: 10, Content: "(;a)"},
		{GameID: 11, Content: "(;b)"},
		{GameID: 12, Content: "(;c)"},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"10.sgf", "12.sgf"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "12.sgf"))
	require.NoError(t, err)
	assert.Equal(t, "(;c)\n", string(data))
}
