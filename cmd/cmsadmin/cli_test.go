// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/cmsadmin/internal/backend"
	"github.com/olegiv/cmsadmin/internal/form"
	"github.com/olegiv/cmsadmin/internal/testutil"
	"github.com/olegiv/cmsadmin/internal/version"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command against b, answering prompts from stdin.
func runCLI(t *testing.T, b *testutil.Backend, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	a.version = version.Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2026-01-01T00:00:00Z"}

	full := []string{"--no-color"}
	if b != nil {
		full = append(full, "--api-url", b.Client.BaseURL())
	}
	full = append(full, args...)
	code := a.run(context.Background(), full)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func brandDoc(name string) backend.Document {
	return backend.Document{"name": name, "country": "DE", "photo": "https://cdn.example.com/" + name + ".png"}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, nil, "", "version")
	assert.Equal(t, exitSuccess, res.code)
	assert.Equal(t, "cmsadmin v1.2.3 (commit abc1234, built 2026-01-01T00:00:00Z)\n", res.stdout)
}

func TestResourcesFilteredByRole(t *testing.T) {
	b := testutil.NewBackend(t, nil)

	res := runCLI(t, b, "", "--role", "customer", "resources")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "testimonials")
	assert.Contains(t, res.stdout, "read, write")
	assert.NotContains(t, res.stdout, "vendors")

	res = runCLI(t, b, "", "--role", "admin", "resources")
	require.Equal(t, exitSuccess, res.code)
	assert.Contains(t, res.stdout, "vendors")
}

func TestRoleGate(t *testing.T) {
	b := testutil.NewBackend(t, nil)

	res := runCLI(t, b, "", "--role", "customer", "create", "brands", "--set", "name=Acme")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "role customer cannot write brands")
	assert.Empty(t, b.Requests())

	res = runCLI(t, b, "", "list", "gadgets")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, `unknown resource "gadgets"`)
}

func TestListSearchAndPaging(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	b.Seed(t, "brands", brandDoc("Acme"), brandDoc("Globex"), brandDoc("Initech"))

	res := runCLI(t, b, "", "list", "brands")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Acme")
	assert.Contains(t, res.stdout, "Showing 1-3 of 3")

	res = runCLI(t, b, "", "list", "brands", "--search", "glob")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Globex")
	assert.NotContains(t, res.stdout, "Acme")

	res = runCLI(t, b, "", "list", "brands", "--limit", "2", "--page", "2")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "page 2 of 2")

	res = runCLI(t, b, "", "list", "brands", "--page", "0")
	assert.Equal(t, exitUserError, res.code)
}

func TestCreateUploadsFiles(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	logo := testutil.WriteImage(t, t.TempDir(), "acme.png", 64, 48)

	res := runCLI(t, b, "", "create", "brands",
		"--set", "name=Acme", "--set", "country=DE", "--file", "photo="+logo, "--preview")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "photo[0] acme.png pending data:image/")
	assert.Contains(t, res.stderr, "Brand created successfully")
	assert.Equal(t, 1, b.UploadCount())

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	id := lines[len(lines)-1]
	doc, err := b.Store.Get(context.Background(), "brands", id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc["name"])
	assert.Contains(t, doc["photo"], "/uploads/")
}

func TestCreateValidationErrors(t *testing.T) {
	b := testutil.NewBackend(t, nil)

	res := runCLI(t, b, "", "create", "brands", "--set", "name=Acme")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "  country: ")
	assert.Contains(t, res.stderr, "  photo: ")
	assert.NotContains(t, res.stderr, "Error:")
	assert.Zero(t, b.Count(http.MethodPost, backend.DefaultAPIPrefix+"/brand/create-brand"))
}

func TestCreateRejectsBadFlags(t *testing.T) {
	b := testutil.NewBackend(t, nil)

	for _, args := range [][]string{
		{"--set", "name"},
		{"--set", "nope=1"},
		{"--file", "name=./x.png"},
		{"--clear", "country"},
	} {
		res := runCLI(t, b, "", append([]string{"create", "brands"}, args...)...)
		assert.Equal(t, exitUserError, res.code, args)
	}
	assert.Empty(t, b.Requests())
}

func TestEditKeepsOtherFields(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	ids := b.Seed(t, "brands", brandDoc("Acme"))

	res := runCLI(t, b, "", "edit", "brands", ids[0], "--set", "country=FR")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Brand updated successfully")

	doc, err := b.Store.Get(context.Background(), "brands", ids[0])
	require.NoError(t, err)
	assert.Equal(t, "FR", doc["country"])
	assert.Equal(t, "Acme", doc["name"])
	assert.Equal(t, "https://cdn.example.com/Acme.png", doc["photo"])
	assert.Zero(t, b.UploadCount())
}

func TestGet(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	ids := b.Seed(t, "brands", brandDoc("Acme"))

	res := runCLI(t, b, "", "get", "brands", ids[0])
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, ids[0])
	assert.Contains(t, res.stdout, "Country")

	res = runCLI(t, b, "", "get", "brands", ids[0], "--json")
	require.Equal(t, exitSuccess, res.code)
	assert.Contains(t, res.stdout, `"name": "Acme"`)

	res = runCLI(t, b, "", "get", "brands", "missing")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "Brand not found")
}

func TestDeleteConfirmation(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	ids := b.Seed(t, "brands", brandDoc("Acme"), brandDoc("Globex"))
	deletePath := backend.DefaultAPIPrefix + "/brand/delete-brand-by-id"

	res := runCLI(t, b, "n\n", "delete", "brands", ids[0])
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stdout, "Delete this brand? This cannot be undone. [y/N]: ")
	assert.Contains(t, res.stdout, "Canceled.")
	assert.Zero(t, b.Count(http.MethodPost, deletePath))

	res = runCLI(t, b, "yes\n", "delete", "brands", ids[0])
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Brand deleted successfully")

	res = runCLI(t, b, "", "delete", "brands", ids[1], "--yes")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, 2, b.Count(http.MethodPost, deletePath))
}

func TestUpload(t *testing.T) {
	b := testutil.NewBackend(t, nil)
	path := testutil.WriteImage(t, t.TempDir(), "banner.png", 10, 10)

	res := runCLI(t, b, "", "upload", path)
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "/uploads/")
	assert.Equal(t, 1, b.UploadCount())

	res = runCLI(t, b, "", "upload", "/does/not/exist.png")
	assert.Equal(t, exitUserError, res.code)
}

func TestUnreachableBackend(t *testing.T) {
	res := runCLI(t, nil, "", "--api-url", "http://127.0.0.1:1/api", "list", "brands")
	assert.Equal(t, exitSysError, res.code)
}

func TestSession(t *testing.T) {
	res := runCLI(t, nil, "", "session")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	_, err := uuid.Parse(strings.TrimSpace(res.stdout))
	assert.NoError(t, err)
}

func TestFieldValue(t *testing.T) {
	tests := []struct {
		kind form.Kind
		raw  string
		want any
	}{
		{form.KindBool, "true", true},
		{form.KindBool, "", false},
		{form.KindList, "pool, gym,,spa", []string{"pool", "gym", "spa"}},
		{form.KindList, " ", []string{}},
		{form.KindNumber, "12.5", "12.5"},
		{form.KindText, "a,b", "a,b"},
	}
	for _, tt := range tests {
		got, err := fieldValue(form.Field{Name: "f", Kind: tt.kind}, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %q", tt.kind, tt.raw)
	}

	_, err := fieldValue(form.Field{Name: "f", Kind: form.KindBool}, "maybe")
	assert.Error(t, err)
}
