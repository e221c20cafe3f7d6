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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const rateLimitWait = 2 * time.Second

// postJSON issues one authenticated POST against the registry and decodes
// the response into out.
//
// Two transient conditions are retried exactly once each: a 401 (token
// expired mid-run) invalidates the cached token and re-authenticates, and
// a 429 waits one fixed backoff interval. Anything else fails the call.
func (i *Integration) postJSON(ctx context.Context, clientID, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	bo := backoff.NewConstantBackOff(rateLimitWait)

	operation := func() ([]byte, error) {
		respBody, err := i.doOnce(ctx, clientID, path, body)
		if err != nil {
			if errors.Is(err, errRateLimited) {
				return nil, err // retryable
			}

			return nil, backoff.Permanent(err)
		}

		return respBody, nil
	}

	respBody, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo), backoff.WithMaxTries(2))
	if err != nil {
		return err
	}

	return json.Unmarshal(respBody, out)
}

// doOnce performs a single request with one built-in re-authentication on
// 401; repeated 401s mean the credentials themselves are rejected.
func (i *Integration) doOnce(ctx context.Context, clientID, path string, body []byte) ([]byte, error) {
	respBody, status, err := i.roundTrip(ctx, clientID, path, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		i.Tokens.Invalidate(clientID)
		i.Logger.Debug().Str("client_id", clientID).Msg("Token rejected, re-authenticating")

		respBody, status, err = i.roundTrip(ctx, clientID, path, body)
		if err != nil {
			return nil, err
		}

		if status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s: token rejected after re-authentication", errAuthFailed, clientID)
		}
	}

	switch {
	case status == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", errRateLimited, path)
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode, status, string(respBody))
	}

	return respBody, nil
}

func (i *Integration) roundTrip(ctx context.Context, clientID, path string, body []byte) ([]byte, int, error) {
	token, err := i.Tokens.GetToken(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.Config.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}

	return respBody, resp.StatusCode, nil
}
