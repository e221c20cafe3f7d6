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

package topdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const rateLimitWait = 2 * time.Second

// getJSON issues one basic-auth GET and decodes the response into out.
// A 204 decodes nothing, a 429 is retried once after a fixed wait.
func (i *Integration) getJSON(ctx context.Context, path, accept string, params url.Values, out interface{}) error {
	bo := backoff.NewConstantBackOff(rateLimitWait)

	operation := func() ([]byte, error) {
		body, err := i.getOnce(ctx, path, accept, params)
		if err != nil {
			if errors.Is(err, errRateLimited) {
				return nil, err // retryable
			}

			return nil, backoff.Permanent(err)
		}

		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo), backoff.WithMaxTries(2))
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, out)
}

func (i *Integration) getOnce(ctx context.Context, path, accept string, params url.Values) ([]byte, error) {
	endpoint := i.Config.Endpoint + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(i.Username, i.Password)
	req.Header.Set("Accept", accept)

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", errRateLimited, path)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d, response: %s",
			errUnexpectedStatusCode, resp.StatusCode, string(body))
	}

	return body, nil
}
