package clientcookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	c := New([]byte("secret"), "brendt_client", false)
	id := uuid.NewString()

	got, err := c.Decode(c.Encode(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	other := New([]byte("other"), "brendt_client", false)
	_, err = other.Decode(c.Encode(id))
	assert.ErrorIs(t, err, ErrInvalid)

	for _, v := range []string{"", "abc", id, id + ".", "not-a-uuid." + sign([]byte("secret"), "not-a-uuid"), c.Encode(id) + ".x"} {
		_, err := c.Decode(v)
		assert.ErrorIs(t, err, ErrInvalid, v)
	}
}

func TestEnsure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := New([]byte("secret"), "brendt_client", true)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	id, issued := c.Ensure(ctx)
	require.True(t, issued)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	w2 := httptest.NewRecorder()
	ctx2, _ := gin.CreateTestContext(w2)
	ctx2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx2.Request.AddCookie(cookies[0])

	again, issued := c.Ensure(ctx2)
	assert.False(t, issued)
	assert.Equal(t, id, again)
	assert.Empty(t, w2.Result().Cookies())
}
