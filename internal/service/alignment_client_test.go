package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

func TestHTTPAlignmentClientAlign(t *testing.T) {
	var received alignmentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/alignments", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alignments":[{"course_code":"MKT330","score":0.9,"reason":"marketing goal"},{"course_code":"ART200","score":1.7},{"score":0.2}]}`))
	}))
	defer server.Close()

	client := NewHTTPAlignmentClient(server.URL+"/", nil, time.Second)
	result, err := client.Align(context.Background(), "stu-1", []models.CandidateCourse{{CourseCode: "MKT330", CourseTitle: "Digital Marketing"}, {CourseCode: "ART200"}})
	require.NoError(t, err)

	assert.Equal(t, "stu-1", received.StudentID)
	require.Len(t, received.Courses, 2)
	assert.Equal(t, "Digital Marketing", received.Courses[0].CourseTitle)
	require.Len(t, result, 2)
	assert.Equal(t, 0.9, result["MKT330"].Score)
	assert.Equal(t, "marketing goal", result["MKT330"].Reason)
	assert.Equal(t, 1.0, result["ART200"].Score)
}

func TestHTTPAlignmentClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPAlignmentClient(server.URL, server.Client(), 0).Align(context.Background(), "stu-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = NewHTTPAlignmentClient("", nil, 0).Align(context.Background(), "stu-1", nil)
	require.Error(t, err)
}

func TestNoopAlignmentProvider(t *testing.T) {
	result, err := NoopAlignmentProvider{}.Align(context.Background(), "stu-1", []models.CandidateCourse{{CourseCode: "MKT330"}})
	require.NoError(t, err)
	assert.Empty(t, result)
}
