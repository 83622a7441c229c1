package rod

import (
	"context"
	"time"

	"github.com/fwojciec/newsgrab"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultSettleDelay is how long the harvester lets the page run after
// load so site scripts can refresh their session cookies.
const DefaultSettleDelay = 2 * time.Second

// Ensure Harvester implements newsgrab.CredentialHarvester at compile time.
var _ newsgrab.CredentialHarvester = (*Harvester)(nil)

// Harvester refreshes session credentials by visiting a domain in a
// stealth browser page seeded with the existing cookies. News sites that
// fingerprint automation get a page that looks like a regular Chrome
// visit.
type Harvester struct {
	manager *BrowserManager
	settle  time.Duration
}

// HarvesterOption configures a Harvester.
type HarvesterOption func(*Harvester)

// WithSettleDelay sets how long the page runs after load before cookies
// are collected. Defaults to DefaultSettleDelay.
func WithSettleDelay(d time.Duration) HarvesterOption {
	return func(h *Harvester) { h.settle = d }
}

// NewHarvester creates a Harvester on top of a BrowserManager.
func NewHarvester(manager *BrowserManager, opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		manager: manager,
		settle:  DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest opens the domain's front page with the existing credentials
// attached, waits for site scripts to settle, and returns the refreshed
// cookie set.
func (h *Harvester) Harvest(ctx context.Context, domain string, existing []newsgrab.Credential) ([]newsgrab.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := stealth.Page(h.manager.Browser())
	if err != nil {
		return nil, newsgrab.Errorf(newsgrab.EUNAVAILABLE, "creating browser page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if len(existing) > 0 {
		if err := page.SetCookies(CookieParams(existing)); err != nil {
			return nil, newsgrab.Errorf(newsgrab.EINTERNAL, "seeding cookies for %q: %v", domain, err)
		}
	}

	if err := page.Navigate("https://" + domain + "/"); err != nil {
		return nil, newsgrab.Errorf(newsgrab.EUNAVAILABLE, "navigating to %q: %v", domain, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, newsgrab.Errorf(newsgrab.EUNAVAILABLE, "loading %q: %v", domain, err)
	}

	select {
	case <-time.After(h.settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	cookies, err := page.Cookies(nil)
	if err != nil {
		return nil, newsgrab.Errorf(newsgrab.EINTERNAL, "reading cookies for %q: %v", domain, err)
	}

	return Credentials(cookies), nil
}

// CookieParams converts credentials into the cookie parameters the
// browser accepts. Credentials without an expiry become session cookies.
func CookieParams(creds []newsgrab.Credential) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(creds))
	for _, c := range creds {
		p := &proto.NetworkCookieParam{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
		if !c.ExpiresAt.IsZero() {
			p.Expires = proto.TimeSinceEpoch(c.ExpiresAt.Unix())
		}
		params = append(params, p)
	}
	return params
}

// Credentials converts browser cookies back into credentials. Session
// cookies carry a zero expiry.
func Credentials(cookies []*proto.NetworkCookie) []newsgrab.Credential {
	creds := make([]newsgrab.Credential, 0, len(cookies))
	for _, c := range cookies {
		cred := newsgrab.Credential{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
		if c.Expires > 0 {
			cred.ExpiresAt = time.Unix(int64(c.Expires), 0).UTC()
		}
		creds = append(creds, cred)
	}
	return creds
}
