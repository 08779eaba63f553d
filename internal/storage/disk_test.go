package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rtchat/internal/pkg/errs"
)

func newTestDiskStore(t *testing.T) (*diskStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := newDiskStore(dir)
	require.NoError(t, err)

	return store, dir
}

func TestDiskStore_SaveAndReadBack(t *testing.T) {
	req := require.New(t)
	store, dir := newTestDiskStore(t)

	stored, customErr := store.Save(context.Background(), "report.pdf", strings.NewReader("pdf bytes"))
	req.Nil(customErr)
	req.Equal("report.pdf", stored)

	data, err := os.ReadFile(filepath.Join(dir, stored))
	req.NoError(err)
	req.Equal("pdf bytes", string(data))
}

func TestDiskStore_CollisionGetsNumericSuffix(t *testing.T) {
	req := require.New(t)
	store, dir := newTestDiskStore(t)

	ctx := context.Background()

	first, customErr := store.Save(ctx, "notes.txt", strings.NewReader("one"))
	req.Nil(customErr)
	req.Equal("notes.txt", first)

	second, customErr := store.Save(ctx, "notes.txt", strings.NewReader("two"))
	req.Nil(customErr)
	req.Equal("notes_1.txt", second)

	third, customErr := store.Save(ctx, "notes.txt", strings.NewReader("three"))
	req.Nil(customErr)
	req.Equal("notes_2.txt", third)

	// The earlier blobs are untouched.
	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	req.NoError(err)
	req.Equal("one", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "notes_1.txt"))
	req.NoError(err)
	req.Equal("two", string(data))
}

func TestDiskStore_DisallowedExtensionRejected(t *testing.T) {
	req := require.New(t)
	store, _ := newTestDiskStore(t)

	for _, name := range []string{"payload.exe", "script.sh", "noextension"} {
		_, customErr := store.Save(context.Background(), name, strings.NewReader("x"))
		req.NotNil(customErr, "name %q must be rejected", name)
		req.Equal(errs.ErrFileTypeNotAllowed, customErr.Code)
	}
}

func TestDiskStore_TraversalNamesAreDefanged(t *testing.T) {
	req := require.New(t)
	store, dir := newTestDiskStore(t)

	stored, customErr := store.Save(context.Background(), "../../etc/passwd.txt", strings.NewReader("x"))
	req.Nil(customErr)
	req.Equal("passwd.txt", stored)

	_, err := os.Stat(filepath.Join(dir, "passwd.txt"))
	req.NoError(err)
}

func TestSanitizeName(t *testing.T) {
	req := require.New(t)

	cases := map[string]string{
		"report.pdf":              "report.pdf",
		"my report (final).pdf":   "my_report_final.pdf",
		"../../etc/passwd.txt":    "passwd.txt",
		"..\\..\\win\\evil.txt":   "evil.txt",
		"..":                      "",
		"añejo.txt":               "aejo.txt",
		"  spaced   name  .txt":   "spaced_name_.txt",
	}

	for input, want := range cases {
		req.Equal(want, SanitizeName(input), "input %q", input)
	}
}

func TestDiskStore_ServeBlob(t *testing.T) {
	req := require.New(t)
	store, _ := newTestDiskStore(t)

	stored, customErr := store.Save(context.Background(), "hello.txt", strings.NewReader("hello world"))
	req.Nil(customErr)

	rr := httptest.NewRecorder()
	store.ServeBlob(rr, httptest.NewRequest(http.MethodGet, "/uploads/"+stored, nil), stored)

	req.Equal(http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	req.NoError(err)
	req.Equal("hello world", string(body))
}

func TestDiskStore_ServeBlobUnknownOrUnsafeName(t *testing.T) {
	req := require.New(t)
	store, _ := newTestDiskStore(t)

	for _, name := range []string{"missing.txt", "../disk.go", "a/b.txt"} {
		rr := httptest.NewRecorder()
		store.ServeBlob(rr, httptest.NewRequest(http.MethodGet, "/uploads/x", nil), name)
		req.Equal(http.StatusNotFound, rr.Code, "name %q", name)
	}
}
