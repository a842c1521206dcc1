package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

const cliFixture = `
students:
  - id: stu-1
    schedule_preferences: [Avoid classes before 10am]
    ideal_credit_range: {min: 3, max: 6}
    categories:
      - name: Business Core
        type: CORE
        recommendations:
          - {course_code: BUS311, course_title: Operations Management, credits: 3}
sections:
  - {section_id: BUS311-01, course_code: BUS311, credits: 3, day_pattern: MWF, start_time: "08:00", end_time: "08:50"}
  - {section_id: BUS311-02, course_code: BUS311, credits: 3, day_pattern: TR, start_time: "11:00", end_time: "12:15"}
`

func writeCLIFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cliFixture), 0o600))
	return path
}

func TestParseOptionsRejectsUnknownFormat(t *testing.T) {
	_, err := parseOptions([]string{"--term", "Fall 2025", "--format", "xlsx"})
	assert.Error(t, err)

	opts, err := parseOptions([]string{"-t", "Fall 2025", "-f", "CSV"})
	require.NoError(t, err)
	assert.Equal(t, "csv", opts.format)
}

func TestRunBuildsFromFixture(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"--fixture", writeCLIFixture(t), "--student", "stu-1", "--term", "Fall 2025"}, &out)
	require.NoError(t, err)

	var schedule models.StudentSchedule
	require.NoError(t, json.Unmarshal(out.Bytes(), &schedule))
	require.Len(t, schedule.Sections, 1)
	assert.Equal(t, "BUS311-02", schedule.Sections[0].SectionID)
	assert.Equal(t, 3, schedule.TotalCredits)
}

func TestRunWritesCSVExport(t *testing.T) {
	outDir := t.TempDir()
	var out bytes.Buffer
	err := run(context.Background(), []string{"--fixture", writeCLIFixture(t), "-s", "stu-1", "-t", "Fall 2025", "-f", "csv", "-o", outDir}, &out)
	require.NoError(t, err)

	path := strings.TrimSpace(out.String())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BUS311-02")
}

func TestRunUsesDefaultStudent(t *testing.T) {
	t.Setenv("DEFAULT_STUDENT_ID", "stu-1")
	var out bytes.Buffer
	err := run(context.Background(), []string{"--fixture", writeCLIFixture(t), "--term", "Fall 2025"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"student_id": "stu-1"`)
}

func TestRunRequiresStudentAndTerm(t *testing.T) {
	t.Setenv("DEFAULT_STUDENT_ID", "")
	assert.Error(t, run(context.Background(), []string{"--fixture", writeCLIFixture(t), "--term", "Fall 2025"}, &bytes.Buffer{}))
	assert.Error(t, run(context.Background(), []string{"--fixture", writeCLIFixture(t), "--student", "stu-1"}, &bytes.Buffer{}))
}

func TestRunMintsToken(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--student", "stu-1", "--mint-token", "student"}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "."))

	assert.Error(t, run(context.Background(), []string{"--student", "stu-1", "--mint-token", "janitor"}, &bytes.Buffer{}))
}

type invalidatorStub struct {
	terms []string
	err   error
}

func (s *invalidatorStub) InvalidateTerm(ctx context.Context, term string) error {
	s.terms = append(s.terms, term)
	return s.err
}

func TestParseOptionsInvalidateCache(t *testing.T) {
	opts, err := parseOptions([]string{"--invalidate-cache", "-t", "Fall 2025"})
	require.NoError(t, err)
	assert.True(t, opts.invalidate)
}

func TestInvalidateSections(t *testing.T) {
	stub := &invalidatorStub{}
	var out bytes.Buffer
	require.NoError(t, invalidateSections(context.Background(), stub, " Fall 2025 ", &out))
	assert.Equal(t, []string{"Fall 2025"}, stub.terms)
	assert.Contains(t, out.String(), "Fall 2025")

	assert.Error(t, invalidateSections(context.Background(), stub, "  ", &bytes.Buffer{}))
	assert.Len(t, stub.terms, 1)

	failing := &invalidatorStub{err: errors.New("redis down")}
	err := invalidateSections(context.Background(), failing, "Fall 2025", &bytes.Buffer{})
	assert.ErrorContains(t, err, "redis down")
}
