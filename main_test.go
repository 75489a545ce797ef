package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mbolis/quick-form/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheck(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"check"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"fullName": "Ada Lovelace",
		"email": "ada@example.com",
		"age": 36,
		"department": "engineering",
		"skills": ["python"],
		"startDate": "2099-01-01",
		"agreeToTerms": true
	}`), 0o644))

	out, err := runCheck(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestCheck_InvalidFromStdin(t *testing.T) {
	out, err := runCheck(t, `{"fullName": "A", "email": "nope", "agreeToTerms": false}`)
	assert.ErrorIs(t, err, errInvalidSubmission)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"fullName: Full Name must be at least 2 characters",
		"email: Email Address format is invalid",
		"age: Age is required",
		"department: Department is required",
		"skills: Skills is required",
		"startDate: Start Date is required",
		"agreeToTerms: I agree to the terms and conditions is required",
	}, lines)
}

func TestCheck_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "form.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`
title: Feedback
fields:
  - { id: rating, type: number, label: Rating, required: true, validation: { min: 1, max: 5 } }
`), 0o644))

	out, err := runCheck(t, `{"rating": 9}`, "--schema", schemaPath)
	assert.ErrorIs(t, err, errInvalidSubmission)
	assert.Equal(t, "rating: Rating must not exceed 5\n", out)
}

func TestCheck_BadInput(t *testing.T) {
	_, err := runCheck(t, `not json`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check.parse")

	_, err = runCheck(t, "", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheck_ErrorsReportedOnce(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(`{"fullName": "A"}`))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"check"})

	err := cmd.Execute()
	require.ErrorIs(t, err, errInvalidSubmission)
	report(err)

	assert.Contains(t, stdout.String(), "fullName: Full Name must be at least 2 characters")
	assert.Empty(t, stderr.String())
	assert.Empty(t, logged.String())

	_, err = runCheck(t, `not json`)
	require.Error(t, err)
	report(err)
	assert.Contains(t, logged.String(), "check.parse")
}
