/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package forticloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/fortisync/pkg/models"
)

// tokenGrant issues a bearer token for one service identity together
// with its cacheable lifetime.
type tokenGrant interface {
	issue(ctx context.Context, clientID string) (token string, ttl time.Duration, err error)
}

// passwordGrant exchanges stored credentials for a bearer token scoped to
// one service identity.
type passwordGrant struct {
	authURL     string
	credentials map[string]string
	http        HTTPClient
}

// NewTokenProvider builds the default cached token provider for a source.
func NewTokenProvider(cfg *models.SourceConfig, httpClient HTTPClient) TokenProvider {
	return newCachedTokens(&passwordGrant{
		authURL:     cfg.AuthEndpoint,
		credentials: cfg.Credentials,
		http:        httpClient,
	})
}

func (p *passwordGrant) issue(ctx context.Context, clientID string) (string, time.Duration, error) {
	username := p.credentials["username"]
	password := p.credentials["password"]

	if username == "" || password == "" {
		return "", 0, errMissingCredentials
	}

	payload, err := json.Marshal(map[string]string{
		"username":   username,
		"password":   password,
		"client_id":  clientID,
		"grant_type": "password",
	})
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("%w: %s: %d, response: %s",
			errAuthFailed, clientID, resp.StatusCode, string(body))
	}

	var tokenResp accessTokenResponse

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", 0, err
	}

	if tokenResp.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: %s: no access token in response", errAuthFailed, clientID)
	}

	return tokenResp.AccessToken, tokenTTL(tokenResp.ExpiresIn), nil
}

// cachedTokens caches one token per service identity for the lifetime
// the registry reported at issue time. Expiry mid-request is still
// handled reactively: a 401 invalidates the cache entry and the request
// layer re-authenticates once.
type cachedTokens struct {
	grant  tokenGrant
	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	token  string
	expiry time.Time
}

// defaultTokenLifetime applies when the registry omits expires_in.
const defaultTokenLifetime = 45 * time.Minute

// tokenTTL converts the registry's expires_in to a cache lifetime.
func tokenTTL(expiresIn int) time.Duration {
	if expiresIn <= 0 {
		return defaultTokenLifetime
	}

	return time.Duration(expiresIn) * time.Second
}

func newCachedTokens(grant tokenGrant) *cachedTokens {
	return &cachedTokens{
		grant:  grant,
		tokens: make(map[string]cachedToken),
	}
}

func (c *cachedTokens) GetToken(ctx context.Context, clientID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.tokens[clientID]; ok && time.Now().Before(cached.expiry) {
		return cached.token, nil
	}

	token, ttl, err := c.grant.issue(ctx, clientID)
	if err != nil {
		return "", err
	}

	c.tokens[clientID] = cachedToken{token: token, expiry: time.Now().Add(ttl)}

	return token, nil
}

func (c *cachedTokens) Invalidate(clientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.tokens, clientID)
}
