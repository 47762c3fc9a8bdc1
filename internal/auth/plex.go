package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/five82/usher/internal/overseerr"
)

// Pin is a PIN issued by Plex.
type Pin struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	AuthToken string `json:"authToken,omitempty"`
}

type plexExchange struct {
	AuthToken        string `json:"authToken"`
	ClientIdentifier string `json:"clientIdentifier"`
}

// requestPin asks Plex for a new strong PIN.
func (c *Controller) requestPin(ctx context.Context) (Pin, error) {
	ep := overseerr.NewEndpoint("/api/v2/pins",
		overseerr.WithMethod(overseerr.MethodPost),
		overseerr.WithBaseURL(c.cfg.PlexBaseURL),
		overseerr.WithQuery("strong", "true"),
		overseerr.WithQuery("X-Plex-Product", c.cfg.Product),
		overseerr.WithQuery("X-Plex-Client-Identifier", c.cfg.ClientIdentifier),
		overseerr.WithQuery("X-Plex-Device", c.cfg.Device),
		overseerr.WithQuery("X-Plex-Device-Name", c.cfg.DeviceName),
		overseerr.WithQuery("X-Plex-Platform", c.cfg.Platform),
		overseerr.WithQuery("X-Plex-Version", c.cfg.Version),
	)
	return overseerr.Fetch[Pin](ctx, c.client, ep)
}

// checkPin fetches the PIN's current state. AuthToken is empty until the
// user approves the PIN in the browser.
func (c *Controller) checkPin(ctx context.Context, pin Pin) (Pin, error) {
	ep := overseerr.NewEndpoint("/api/v2/pins/"+strconv.Itoa(pin.ID),
		overseerr.WithBaseURL(c.cfg.PlexBaseURL),
		overseerr.WithQuery("code", pin.Code),
		overseerr.WithQuery("X-Plex-Client-Identifier", c.cfg.ClientIdentifier),
	)
	return overseerr.Fetch[Pin](ctx, c.client, ep)
}

// exchangeToken trades a Plex token for an Overseerr session.
func (c *Controller) exchangeToken(ctx context.Context, token string) (overseerr.User, error) {
	ep := overseerr.NewEndpoint("/auth/plex",
		overseerr.WithMethod(overseerr.MethodPost),
		overseerr.WithJSONBody(plexExchange{AuthToken: token, ClientIdentifier: c.cfg.ClientIdentifier}),
	)
	return overseerr.Fetch[overseerr.User](ctx, c.client, ep)
}

// AuthURL is the browser URL where the user approves pin.
func (c *Controller) AuthURL(pin Pin) string {
	return strings.TrimRight(c.cfg.PlexAuthURL, "#") + "#?" + overseerr.EncodeQuery([]overseerr.QueryParam{
		{Name: "clientID", Value: c.cfg.ClientIdentifier},
		{Name: "code", Value: pin.Code},
		{Name: "context[device][product]", Value: c.cfg.Product},
	})
}
