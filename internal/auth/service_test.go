package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skjal/gatt/internal/model"
)

func timeZero() time.Time { return time.Time{} }

type fakeProvider struct {
	session  *model.Session
	loginErr error
	logouts  int
}

func (p *fakeProvider) Login(context.Context) (*model.Session, error) {
	if p.loginErr != nil {
		return nil, p.loginErr
	}
	return p.session, nil
}

func (p *fakeProvider) Logout(context.Context) error {
	p.logouts++
	return nil
}

func (p *fakeProvider) Token(context.Context) (string, error) {
	if p.session == nil {
		return "", nil
	}
	return p.session.Token, nil
}

func (p *fakeProvider) User() *model.UserInfo {
	if p.session == nil {
		return nil
	}
	return &p.session.User
}

func Test_ServiceNoProvider(t *testing.T) {
	ctx := context.Background()
	service := NewService(nil)

	_, err := service.Login(ctx)
	assert.Equal(t, ErrNoProvider, err)
	assert.Equal(t, ErrNoProvider, service.Logout(ctx))

	token, err := service.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, service.User())
}

func Test_ServiceLoginLogout(t *testing.T) {
	ctx := context.Background()
	session, err := model.NewSession("token-1", model.UserInfo{Name: "Jón"}, timeZero())
	require.NoError(t, err)
	provider := &fakeProvider{session: session}
	service := NewService(provider)

	got, err := service.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jón", got.User.Name)

	token, err := service.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, session, service.Session())

	require.NoError(t, service.Logout(ctx))
	assert.Equal(t, 1, provider.logouts)
	assert.Nil(t, service.Session())
}

func Test_ServiceNotifiesInRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	session, err := model.NewSession("token-1", model.UserInfo{Name: "Jón"}, timeZero())
	require.NoError(t, err)
	service := NewService(&fakeProvider{session: session})

	var order []string
	service.Subscribe(func(s *model.Session) {
		order = append(order, "first")
	})
	unsubscribe := service.Subscribe(func(s *model.Session) {
		order = append(order, "second")
	})
	service.Subscribe(func(s *model.Session) {
		order = append(order, "third")
	})

	_, err = service.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	// dropping the middle listener leaves the others untouched
	unsubscribe()
	order = nil
	require.NoError(t, service.Logout(ctx))
	assert.Equal(t, []string{"first", "third"}, order)
}

func Test_ServiceLogoutNotifiesNilSession(t *testing.T) {
	ctx := context.Background()
	session, err := model.NewSession("token-1", model.UserInfo{Name: "Jón"}, timeZero())
	require.NoError(t, err)
	service := NewService(&fakeProvider{session: session})

	var last *model.Session
	notified := 0
	service.Subscribe(func(s *model.Session) {
		last = s
		notified++
	})

	_, err = service.Login(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)

	require.NoError(t, service.Logout(ctx))
	assert.Equal(t, 2, notified)
	assert.Nil(t, last)
}
