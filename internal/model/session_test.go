package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewSession(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		user    UserInfo
		wantErr bool
	}{
		{
			name:  "Happy Path",
			token: "opaque-bearer",
			user:  UserInfo{Name: "Jón Jónsson", ID: "1234567890"},
		},
		{
			name:    "Missing token",
			token:   "",
			user:    UserInfo{Name: "Jón Jónsson"},
			wantErr: true,
		},
		{
			name:    "Missing identity",
			token:   "opaque-bearer",
			user:    UserInfo{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSession(tt.token, tt.user, time.Time{})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != nil {
				assert.NotEmpty(t, got.ID)
				if time.Since(got.CreatedAt) > time.Second {
					t.Errorf("NewSession() = %v, creation time anomaly", got)
				}
			}
		})
	}
}

func Test_SessionExpired(t *testing.T) {
	now := time.Now()
	session, err := NewSession("tok", UserInfo{ID: "1234567890"}, now.Add(time.Minute))
	require.NoError(t, err)

	assert.False(t, session.Expired(now, 0))
	assert.True(t, session.Expired(now, 2*time.Minute))
	assert.True(t, session.Expired(now.Add(2*time.Minute), 0))

	session.ExpiresAt = time.Time{}
	assert.False(t, session.Expired(now.Add(100*time.Hour), 0))
}

func Test_UserInfoFromJSON(t *testing.T) {
	user, err := UserInfoFromJSON(json.RawMessage(`{}`))
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = UserInfoFromJSON(json.RawMessage(`{"nafn":"Jón","kennitala":"1234567890"}`))
	require.NoError(t, err)
	assert.Equal(t, "Jón", user.Name)
	assert.Equal(t, "1234567890", user.ID)

	user, err = UserInfoFromJSON(json.RawMessage(`{"name":"Anna","ssn":"0987654321","email":"anna@example.is"}`))
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, "0987654321", user.ID)
	assert.Equal(t, "anna@example.is", user.Email)

	_, err = UserInfoFromJSON(json.RawMessage(`{"unrelated":true}`))
	assert.Error(t, err)

	_, err = UserInfoFromJSON(json.RawMessage(`not json`))
	assert.Error(t, err)
}
