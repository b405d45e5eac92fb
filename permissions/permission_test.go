package permissions_test

import (
	"net/http"
	"testing"

	"hotel/permissions"
	"hotel/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)

	assert.Equal(t, []string{constant.RoleAdmin, constant.RoleManager, constant.RoleReceptionist, constant.RoleStaff}, data.Roles())

	seen := map[string]bool{}
	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path
		assert.False(t, seen[key], "duplicate entry %s", key)
		seen[key] = true
	}
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		path   string
		method string
		role   string
		allow  bool
	}{
		{"admin manages users", "/v1/users/", http.MethodPost, constant.RoleAdmin, true},
		{"staff cannot list users", "/v1/users/", http.MethodGet, constant.RoleStaff, false},
		{"staff moves room status", "/v1/rooms/{id}/status", http.MethodPatch, constant.RoleStaff, true},
		{"receptionist cannot refund", "/v1/payments/{id}/refund", http.MethodPost, constant.RoleReceptionist, false},
		{"login skips", "/v1/auth/login", http.MethodPost, "", true},
		{"unknown route is open to any user", "/v1/unknown", http.MethodGet, constant.RoleStaff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allow, data.FindPermissions(tt.path, tt.method).Allows(tt.role))
		})
	}
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))
	assert.Error(t, err)

	data, err := permissions.Parse([]byte(`{"skip":true,"endpoints":[]}`))
	require.NoError(t, err)
	assert.True(t, data.Skip)
}
