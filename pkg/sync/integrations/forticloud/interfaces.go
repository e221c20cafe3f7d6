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

//go:generate mockgen -destination=mock_forticloud.go -package=forticloud github.com/carverauto/fortisync/pkg/sync/integrations/forticloud HTTPClient,TokenProvider

package forticloud

import (
	"context"
	"net/http"
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider exchanges credentials for a bearer token scoped to one
// service identity. Invalidate drops a cached token so the next call
// re-authenticates, which is how token expiry is retried once.
type TokenProvider interface {
	GetToken(ctx context.Context, clientID string) (string, error)
	Invalidate(clientID string)
}
