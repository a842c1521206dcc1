package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

// AlignmentProvider scores candidate courses against a student's goals. Scores are
// opaque inputs to the scheduler.
type AlignmentProvider interface {
	Align(ctx context.Context, studentID string, courses []models.CandidateCourse) (map[string]models.CourseAlignment, error)
}

// NoopAlignmentProvider leaves every course unscored.
type NoopAlignmentProvider struct{}

// Align implements AlignmentProvider.
func (NoopAlignmentProvider) Align(ctx context.Context, studentID string, courses []models.CandidateCourse) (map[string]models.CourseAlignment, error) {
	return map[string]models.CourseAlignment{}, nil
}

// HTTPAlignmentClient calls the personalization service over HTTP.
type HTTPAlignmentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPAlignmentClient builds a client; a nil httpClient gets a timeout-bound default.
func NewHTTPAlignmentClient(baseURL string, httpClient *http.Client, timeout time.Duration) *HTTPAlignmentClient {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPAlignmentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type alignmentRequest struct {
	StudentID string            `json:"student_id"`
	Courses   []alignmentCourse `json:"courses"`
}

type alignmentCourse struct {
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
}

type alignmentResponse struct {
	Alignments []models.CourseAlignment `json:"alignments"`
}

// Align implements AlignmentProvider.
func (c *HTTPAlignmentClient) Align(ctx context.Context, studentID string, courses []models.CandidateCourse) (map[string]models.CourseAlignment, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("alignment service base url not configured")
	}

	body := alignmentRequest{StudentID: studentID, Courses: make([]alignmentCourse, 0, len(courses))}
	for _, course := range courses {
		body.Courses = append(body.Courses, alignmentCourse{CourseCode: course.CourseCode, CourseTitle: course.CourseTitle})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/alignments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return map[string]models.CourseAlignment{}, nil
	default:
		return nil, fmt.Errorf("alignment service unexpected status: %d", resp.StatusCode)
	}

	var decoded alignmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode alignment response: %w", err)
	}

	result := make(map[string]models.CourseAlignment, len(decoded.Alignments))
	for _, alignment := range decoded.Alignments {
		if alignment.CourseCode == "" {
			continue
		}
		alignment.Score = clampUnit(alignment.Score)
		result[alignment.CourseCode] = alignment
	}
	return result, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
