package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sakif/devtrack/internal/model"
)

// userinfoURL is Google's OpenID userinfo endpoint. The fields we read are
// stable across the v2 endpoint: sub/id, name, email, picture.
const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUser is the portion of the userinfo response we care about. Google
// returns more fields; we only unmarshal what the identity needs.
type googleUser struct {
	ID      string `json:"id"`      // stable subject identifier
	Name    string `json:"name"`    // display name (may be empty)
	Email   string `json:"email"`   // primary email (may be hidden)
	Picture string `json:"picture"` // profile photo URL
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google authorization-code
// flow. It is the identity provider of the system: a completed flow yields a
// model.Identity with {uid, displayName, email, photoURL}.
//
// The code-for-token exchange is server-to-server using the client secret;
// the access token never reaches the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
// callbackURL must exactly match an authorized redirect URI registered in
// the Google Cloud console for this client.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization. state
// is a random value the callback handler verifies against a cookie to block
// cross-site request forgery.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the flow: trades the authorization code for an access
// token, calls the userinfo endpoint with it, and returns the identity.
//
// Steps:
//  1. Exchange the code for an OAuth access token (server-to-server)
//  2. Call the userinfo endpoint with the token
//  3. Map the response onto model.Identity
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*model.Identity, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the bearer
	// token to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if gu.ID == "" {
		return nil, fmt.Errorf("auth: userinfo returned no subject id")
	}

	return &model.Identity{
		UID:         gu.ID,
		DisplayName: gu.Name,
		Email:       gu.Email,
		PhotoURL:    gu.Picture,
	}, nil
}
