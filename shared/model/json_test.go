package model_test

import (
	"testing"

	"hotel/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestJSONList_Value(t *testing.T) {
	value, err := model.JSONList[line]{{Name: "Tea", Quantity: 2}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Tea","quantity":2}]`, string(value.([]byte)))

	empty, err := model.JSONList[line](nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), empty)
}

func TestJSONList_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    model.JSONList[line]
		wantErr bool
	}{
		{name: "bytes", src: []byte(`[{"name":"Tea","quantity":2}]`), want: model.JSONList[line]{{Name: "Tea", Quantity: 2}}},
		{name: "string", src: `[{"name":"Coffee","quantity":1}]`, want: model.JSONList[line]{{Name: "Coffee", Quantity: 1}}},
		{name: "null", src: nil, want: nil},
		{name: "unsupported", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.JSONList[line]

			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
