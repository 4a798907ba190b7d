package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{ExportDir: filepath.Join(tempDir, "exports")}, nil)
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths, nil)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		fullPath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "relative path goes to export dir",
			filePath: "test_basic.csv",
			fullPath: filepath.Join(tempDir, "exports", "test_basic.csv"),
			options: WriteOptions{
				Headers: []string{"month", "total_rent"},
				Records: [][]string{{"Jan", "200"}, {"Jul", "600"}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"month,total_rent", "Jan,200", "Jul,600"}, lines)
			},
		},
		{
			name:     "absolute path with BOM",
			filePath: filepath.Join(tempDir, "nested", "bom.csv"),
			fullPath: filepath.Join(tempDir, "nested", "bom.csv"),
			options: WriteOptions{
				Headers:   []string{"weather_cond"},
				Records:   [][]string{{"Light Rain/Snow"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Contains(t, string(content), "Light Rain/Snow")
			},
		},
		{
			name:     "quotes fields with commas",
			filePath: "quoted.csv",
			fullPath: filepath.Join(tempDir, "exports", "quoted.csv"),
			options: WriteOptions{
				Records: [][]string{{"a,b", "c"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "\"a,b\",c\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))
			content, err := os.ReadFile(tt.fullPath)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"first"}, {"second"}}}))
	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"third"}}}))

	content, err := os.ReadFile(filepath.Join(tempDir, "exports", "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(content))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}
