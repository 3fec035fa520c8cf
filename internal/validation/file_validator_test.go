package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateWorkbookFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	workbook := filepath.Join(dir, "factors.xlsx")
	require.NoError(t, os.WriteFile(workbook, []byte("stub"), 0644))

	csvFile := filepath.Join(dir, "factors.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte("stub"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name: "valid workbook",
			path: workbook,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "absent.xlsx"),
			wantErr: "does not exist",
		},
		{
			name:    "directory instead of file",
			path:    dir,
			wantErr: "is a directory",
		},
		{
			name:    "wrong extension",
			path:    csvFile,
			wantErr: "not an .xlsx file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbookFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFileValidator_ValidateInputFile(t *testing.T) {
	v := NewFileValidator(nil)
	dir := t.TempDir()

	existing := filepath.Join(dir, "combined.csv")
	require.NoError(t, os.WriteFile(existing, []byte("Code,Year\n"), 0644))

	assert.NoError(t, v.ValidateInputFile(existing))
	assert.Error(t, v.ValidateInputFile(filepath.Join(dir, "missing.csv")))
	assert.Error(t, v.ValidateInputFile(dir))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	// Creates nested directories as needed.
	target := filepath.Join(t.TempDir(), "reports", "combined")
	require.NoError(t, v.ValidateOutputDirectory(target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Leaves no probe file behind.
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
