package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bondappetit/woodpecker/client/wisewolves"
)

type mockGateway struct {
	clients  []wisewolves.Client
	data     wisewolves.ClientData
	logins   int
	lastAuth string
}

func (g *mockGateway) LoginStep1(_ context.Context, login, password string) (wisewolves.AuthKey, error) {
	if login == "" || password == "" {
		return wisewolves.AuthKey{}, fmt.Errorf("bad credentials")
	}
	g.logins++
	return wisewolves.AuthKey{UserKey: "user-key"}, nil
}

func (g *mockGateway) LoginStep2(_ context.Context, code, userKey string) (wisewolves.Session, error) {
	if userKey != "user-key" {
		return wisewolves.Session{}, fmt.Errorf("bad user key")
	}
	return wisewolves.Session{AccessToken: fmt.Sprintf("token-%d", g.logins)}, nil
}

func (g *mockGateway) GeneralInfo(_ context.Context, session wisewolves.Session) (wisewolves.GeneralInfo, error) {
	g.lastAuth = session.AccessToken
	return wisewolves.GeneralInfo{Clients: g.clients}, nil
}

func (g *mockGateway) ClientData(_ context.Context, session wisewolves.Session, clientID string) (wisewolves.ClientData, error) {
	g.lastAuth = session.AccessToken
	return g.data, nil
}

type mockDepositary struct {
	assets []OnChainAsset
	ops    []string
}

func (d *mockDepositary) Assets(_ context.Context) ([]OnChainAsset, error) {
	return d.assets, nil
}

func (d *mockDepositary) Put(_ context.Context, asset Asset) error {
	d.ops = append(d.ops, "put:"+asset.ID)
	return nil
}

func (d *mockDepositary) Remove(_ context.Context, id string) error {
	d.ops = append(d.ops, "remove:"+id)
	return nil
}

func newMockGateway() *mockGateway {
	broken := bond("XS2", 5, 100)
	broken.SignedData = signed("no-timestamp")
	return &mockGateway{
		clients: []wisewolves.Client{{ID: "client-1", Name: "fund"}},
		data: wisewolves.ClientData{
			ID: "client-1",
			MoneyDetails: []wisewolves.MoneyAmount{
				{Currency: "USD", Amount: 100, SignedData: signed("a|b|1700000000")},
			},
			Portfolio: []wisewolves.Position{
				bond("XS1", 10, 100),
				broken,
			},
		},
	}
}

func TestEngineRun(t *testing.T) {
	gateway := newMockGateway()
	depositary := &mockDepositary{assets: []OnChainAsset{
		{ID: "USD"},
		{ID: "XS999"},
	}}
	engine := New(Config{Login: "l", Password: "p", Code: "c", Client: "client-1"}, gateway, depositary)

	err := engine.Run(context.Background())
	assert.NoError(t, err)

	// removals settle before any upsert, upserts follow desired-set order,
	// the record with the broken proof timestamp is skipped
	assert.Equal(t, []string{"remove:XS999", "put:USD", "put:XS1"}, depositary.ops)
	assert.Equal(t, "token-1", gateway.lastAuth)
}

func TestEngineClientNotFound(t *testing.T) {
	gateway := newMockGateway()
	depositary := &mockDepositary{}
	engine := New(Config{Login: "l", Password: "p", Code: "c", Client: "other"}, gateway, depositary)

	err := engine.Run(context.Background())
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Empty(t, depositary.ops)
}

func TestEngineLoginFailure(t *testing.T) {
	gateway := newMockGateway()
	depositary := &mockDepositary{}
	engine := New(Config{Client: "client-1"}, gateway, depositary)

	err := engine.Run(context.Background())
	assert.Error(t, err)
	assert.Empty(t, depositary.ops)
}

func TestEngineDeny(t *testing.T) {
	gateway := newMockGateway()
	depositary := &mockDepositary{assets: []OnChainAsset{{ID: "USD"}}}
	engine := New(Config{
		Login: "l", Password: "p", Code: "c", Client: "client-1",
		Deny: []string{"USD", "XS1", "XS2"},
	}, gateway, depositary)

	err := engine.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"remove:USD"}, depositary.ops)
}

func TestEngineIdempotence(t *testing.T) {
	gateway := newMockGateway()
	depositary := &mockDepositary{assets: []OnChainAsset{{ID: "USD"}, {ID: "XS1"}}}
	engine := New(Config{Login: "l", Password: "p", Code: "c", Client: "client-1"}, gateway, depositary)

	assert.NoError(t, engine.Run(context.Background()))
	first := append([]string(nil), depositary.ops...)

	depositary.ops = nil
	assert.NoError(t, engine.Run(context.Background()))

	// every desired record is resubmitted on every pass, unchanged or not
	assert.Equal(t, []string{"put:USD", "put:XS1"}, first)
	assert.Equal(t, first, depositary.ops)
	// a fresh session is negotiated per run
	assert.Equal(t, 2, gateway.logins)
	assert.Equal(t, "token-2", gateway.lastAuth)
}
