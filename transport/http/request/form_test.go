package request_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hotel/shared/failure"
	"hotel/transport/http/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, r.ParseForm())

	return r
}

func TestFormInt(t *testing.T) {
	r := newFormRequest(t, url.Values{"floor": {"3"}, "capacity": {"two"}})

	floor, err := request.FormInt(r, "floor")
	require.NoError(t, err)
	assert.Equal(t, 3, floor)

	missing, err := request.FormInt(r, "missing")
	require.NoError(t, err)
	assert.Zero(t, missing)

	_, err = request.FormInt(r, "capacity")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.EqualError(t, err, "capacity must be a number")

	ptr, err := request.FormIntPtr(r, "missing")
	require.NoError(t, err)
	assert.Nil(t, ptr)

	ptr, err = request.FormIntPtr(r, "floor")
	require.NoError(t, err)
	assert.Equal(t, 3, *ptr)
}

func TestFormDecimal(t *testing.T) {
	r := newFormRequest(t, url.Values{"price": {" 4500.50 "}, "bad": {"12,5"}})

	price, err := request.FormDecimal(r, "price")
	require.NoError(t, err)
	assert.Equal(t, "4500.5", price.String())

	missing, err := request.FormDecimal(r, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = request.FormDecimal(r, "bad")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestFormList(t *testing.T) {
	r := newFormRequest(t, url.Values{"amenities": {"wifi, ac", "tv", " "}})

	assert.Equal(t, []string{"wifi", "ac", "tv"}, request.FormList(r, "amenities"))
	assert.Nil(t, request.FormList(r, "missing"))
}
