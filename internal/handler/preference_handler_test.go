package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/dto"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type preferenceServiceMock struct {
	updated *dto.UpdatePreferencesRequest
	resp    *models.StudentPreferences
	err     error
}

func (m *preferenceServiceMock) Get(ctx context.Context, studentID string) (*models.StudentPreferences, error) {
	return m.resp, m.err
}

func (m *preferenceServiceMock) Update(ctx context.Context, studentID string, req dto.UpdatePreferencesRequest) (*models.StudentPreferences, error) {
	m.updated = &req
	return m.resp, m.err
}

func TestPreferenceHandlerGet(t *testing.T) {
	handler := NewPreferenceHandler(&preferenceServiceMock{resp: &models.StudentPreferences{StudentID: "stu-1"}})
	c, w := newScheduleTestContext(http.MethodGet, "/students/stu-1/preferences", nil, nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPreferenceHandlerGetNotFound(t *testing.T) {
	handler := NewPreferenceHandler(&preferenceServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")})
	c, w := newScheduleTestContext(http.MethodGet, "/students/stu-1/preferences", nil, nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreferenceHandlerUpdate(t *testing.T) {
	svc := &preferenceServiceMock{resp: &models.StudentPreferences{StudentID: "stu-1"}}
	handler := NewPreferenceHandler(svc)
	body := []byte(`{"schedule_preferences":["Prefer classes on TR"],"ideal_min_credits":12,"ideal_max_credits":15}`)
	c, w := newScheduleTestContext(http.MethodPut, "/students/stu-1/preferences", body, nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.updated)
	assert.Equal(t, []string{"Prefer classes on TR"}, svc.updated.SchedulePreferences)
	assert.Equal(t, 15, svc.updated.IdealMaxCredits)
}

func TestPreferenceHandlerUpdateRejectsMalformedBody(t *testing.T) {
	svc := &preferenceServiceMock{}
	handler := NewPreferenceHandler(svc)
	c, w := newScheduleTestContext(http.MethodPut, "/students/stu-1/preferences", []byte(`{"ideal_min_credits":"many"}`), nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.updated)
}
