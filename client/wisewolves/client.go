package wisewolves

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Gateway talks to the WiseWolves brokerage REST API.
// Authenticated reads take an explicit Session value, there is no token state
// on the gateway itself, so repeated runs cannot observe a half-updated login.
type Gateway struct {
	http *resty.Client
}

// New creates a gateway for the given API base url.
func New(url string) *Gateway {
	return &Gateway{
		http: resty.New().
			SetBaseURL(url).
			SetHeader("Accept", "application/json").
			SetHeader("Content-Type", "application/json-patch+json"),
	}
}

// LoginStep1 exchanges the credentials for a one-time user key.
func (g *Gateway) LoginStep1(ctx context.Context, login, password string) (AuthKey, error) {
	var key AuthKey
	err := g.call(ctx, http.MethodPost, "/auth/loginstep1", "", nil,
		map[string]string{"login": login, "password": password}, &key)
	return key, err
}

// LoginStep2 exchanges the one-time code and user key for a session.
func (g *Gateway) LoginStep2(ctx context.Context, code, userKey string) (Session, error) {
	var session Session
	err := g.call(ctx, http.MethodPost, "/auth/loginstep2", "", nil,
		map[string]string{"code": code, "userKey": userKey}, &session)
	return session, err
}

// GeneralInfo reads the account-wide client list.
func (g *Gateway) GeneralInfo(ctx context.Context, session Session) (GeneralInfo, error) {
	var info GeneralInfo
	err := g.call(ctx, http.MethodGet, "/brokerage/GetGeneralInfo", session.AccessToken, nil, nil, &info)
	return info, err
}

// ClientData reads the detailed signed positions of one client.
func (g *Gateway) ClientData(ctx context.Context, session Session, clientID string) (ClientData, error) {
	var data ClientData
	err := g.call(ctx, http.MethodGet, "/brokerage/GetClientDataSigned", session.AccessToken,
		map[string]string{"clientId": clientID}, nil, &data)
	return data, err
}

func (g *Gateway) call(ctx context.Context, method, url, token string, query map[string]string, body, out interface{}) error {
	req := g.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	res, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("request %q failed: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		var apiErr struct {
			ErrMessage string `json:"errMessage"`
		}
		// best effort, the body might not be json
		_ = json.Unmarshal(res.Body(), &apiErr)
		return fmt.Errorf("request %q error: %d %s", url, res.StatusCode(), apiErr.ErrMessage)
	}
	log.Debug().Str("url", url).Msg("brokerage call")
	return nil
}
