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

// Package pager implements exhaustive offset-cursor pagination against
// list endpoints whose effective page size is decided by the server.
package pager

import (
	"context"
	"errors"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// PageFunc fetches one page starting at the zero-based offset start,
// requesting at most size records. It returns the page's records and
// whether the upstream indicates more pages remain. Implementations that
// have no explicit page indicator should report more = len(items) == size.
type PageFunc[T any] func(ctx context.Context, start, size int) (items []T, more bool, err error)

// All drains every page from fn in first-seen order.
//
// The cursor advances by the number of records actually returned, never by
// the requested size: upstream APIs cap page sizes below the caller's
// request, and advancing by the request (or any fixed literal) silently
// skips the capped remainder of each page. Iteration stops on an empty
// page or when the upstream reports no more pages.
//
// On error the records collected so far are returned with it, so a caller
// can tell a partial result from an empty one.
func All[T any](ctx context.Context, size int, fn PageFunc[T]) ([]T, error) {
	if size <= 0 {
		return nil, ErrInvalidPageSize
	}

	var out []T

	start := 0

	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		items, more, err := fn(ctx, start, size)
		if err != nil {
			return out, err
		}

		out = append(out, items...)

		if len(items) == 0 || !more {
			return out, nil
		}

		start += len(items)
	}
}
