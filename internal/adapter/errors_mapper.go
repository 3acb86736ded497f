// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"github.com/go-resty/resty/v2"
)

// mapHTTPError returns nil for 2xx responses and an [*APIError] otherwise.
func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	return &APIError{
		StatusCode: resp.StatusCode(),
		Detail:     extractDetail(resp.Body()),
	}
}
