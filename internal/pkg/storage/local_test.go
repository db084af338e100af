package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "payroll/2025-02.xlsx")
	require.NoError(t, err)
	assert.False(t, exists)

	path, err := s.Save(ctx, "payroll/2025-02.xlsx", strings.NewReader("first"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "2025-02.xlsx"))

	// Overwrites in place
	_, err = s.Save(ctx, "payroll/2025-02.xlsx", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, "payroll/2025-02.xlsx")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))

	exists, err = s.Exists(ctx, "payroll/2025-02.xlsx")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_OpenMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "payroll/1999-01.xlsx")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestLocalStorage_KeysStayInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.Save(ctx, "../../escape.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, s.basePath))

	_, err = s.Save(ctx, "", strings.NewReader("x"))
	assert.Error(t, err)
}
