package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler() (*Handler, *fakeStore, *fakeEnqueuer, *fakeLimiter) {
	svc, store, enqueuer, limiter := newTestService()
	return NewHandler(svc), store, enqueuer, limiter
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestHandler_Send_Success(t *testing.T) {
	h, _, _, _ := newTestHandler()

	w := postJSON(t, h.Send, "/notifications/send", SendRequest{
		Message:      "hi",
		UserID:       1,
		DeliveryType: "email",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Notification queued successfully!", resp.Message)
	assert.NotEmpty(t, resp.JobID)
}

func TestHandler_Send_InvalidChannel(t *testing.T) {
	h, store, enqueuer, _ := newTestHandler()

	w := postJSON(t, h.Send, "/notifications/send", SendRequest{
		Message:      "hi",
		UserID:       1,
		DeliveryType: "fax",
	})

	// An unknown channel fails as a generic 500 on this endpoint; only a
	// quota denial produces a distinct status here.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "job_id")
	assert.Empty(t, store.records)
	assert.Empty(t, enqueuer.enqueued)
}

func TestHandler_Send_RateLimited(t *testing.T) {
	h, _, _, limiter := newTestHandler()
	limiter.allowed = false

	w := postJSON(t, h.Send, "/notifications/send", SendRequest{
		Message:      "hi",
		UserID:       1,
		DeliveryType: "email",
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestHandler_Send_MalformedBody(t *testing.T) {
	h, _, _, _ := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/notifications/send", bytes.NewReader([]byte(`{"message":"hi"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetStatus(t *testing.T) {
	h, store, _, _ := newTestHandler()

	n := &Notification{JobID: "j1", UserID: 4, Message: "hi", Channel: ChannelSMS, Status: StatusPending}
	require.NoError(t, store.Create(context.Background(), n))
	require.NoError(t, store.UpdateStatus(context.Background(), "j1", StatusDelivered, ""))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/status/j1", nil)
	c.Params = gin.Params{{Key: "job_id", Value: "j1"}}
	h.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, n.ID, resp.ID)
	assert.Equal(t, "j1", resp.JobID)
	assert.Equal(t, int64(4), resp.UserID)
	assert.Equal(t, "hi", resp.Message)
	assert.Equal(t, "sms", resp.DeliveryType)
	assert.Equal(t, "delivered", resp.Status)
}

func TestHandler_GetStatus_NotFound(t *testing.T) {
	h, _, _, _ := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/status/nope", nil)
	c.Params = gin.Params{{Key: "job_id", Value: "nope"}}
	h.GetStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetByUser(t *testing.T) {
	h, store, _, _ := newTestHandler()

	for _, jobID := range []string{"a", "b", "c"} {
		n := &Notification{JobID: jobID, UserID: 2, Message: "m-" + jobID, Channel: ChannelEmail, Status: StatusPending}
		require.NoError(t, store.Create(context.Background(), n))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/notifications/user/2", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "2"}}
	h.GetByUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp UserNotificationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 3)

	// Newest first: the fake store staggers creation times by insert order.
	assert.Equal(t, "c", resp.Notifications[0].JobID)
	assert.Equal(t, "a", resp.Notifications[2].JobID)
}

func TestHandler_GetByUser_NoneIs404(t *testing.T) {
	h, _, _, _ := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/notifications/user/99", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "99"}}
	h.GetByUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetByUser_NonNumericID(t *testing.T) {
	h, _, _, _ := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications/notifications/user/bob", nil)
	c.Params = gin.Params{{Key: "user_id", Value: "bob"}}
	h.GetByUser(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
