package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessAndError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, http.StatusOK, []string{"a"})

	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeSuccess, body.Code)
	assert.Equal(t, "success", body.Message)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, http.StatusTooManyRequests, CodeRateLimited)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"code":4290,"message":"rate limit exceeded"}`, w.Body.String())
}

func TestMessageUnknownCode(t *testing.T) {
	assert.Equal(t, "unknown error", Message(1))
}
