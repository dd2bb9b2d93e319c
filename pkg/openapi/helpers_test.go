package openapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadTestDocument(t *testing.T, name string) *Document {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	doc, err := Load(data)
	require.NoError(t, err)
	return doc
}

func boolPtr(b bool) *bool {
	return &b
}
