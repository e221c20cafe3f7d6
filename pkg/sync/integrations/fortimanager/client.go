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

package fortimanager

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

// exec performs one JSON-RPC call and returns the first result element.
// A 429 is retried once after a fixed wait; any other transport or
// envelope failure is permanent.
func (i *Integration) exec(ctx context.Context, method string, param rpcParam) (*rpcResult, error) {
	body, err := json.Marshal(rpcRequest{ID: 1, Method: method, Params: []rpcParam{param}})
	if err != nil {
		return nil, err
	}

	bo := backoff.NewConstantBackOff(rateLimitWait)

	operation := func() (*rpcResult, error) {
		result, err := i.execOnce(ctx, body)
		if err != nil {
			if errors.Is(err, errRateLimited) {
				return nil, err // retryable
			}

			return nil, backoff.Permanent(err)
		}

		return result, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo), backoff.WithMaxTries(2))
	if err != nil {
		return nil, err
	}

	if result.Status.Code != 0 {
		return nil, fmt.Errorf("%w: %s: code %d: %s",
			errRPCStatus, param.URL, result.Status.Code, result.Status.Message)
	}

	return result, nil
}

func (i *Integration) execOnce(ctx context.Context, body []byte) (*rpcResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.Config.Endpoint+rpcPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+i.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d, response: %s",
			errUnexpectedStatusCode, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse

	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, err
	}

	if len(rpcResp.Result) == 0 {
		return nil, errEmptyResult
	}

	return &rpcResp.Result[0], nil
}
