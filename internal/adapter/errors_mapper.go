// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/vaultsync/models"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}

	body := strings.TrimSpace(string(resp.Body()))
	var decoded models.APIError
	if err := json.Unmarshal(resp.Body(), &decoded); err == nil && (decoded.Code != 0 || decoded.Error != "") {
		apiErr.Code = decoded.Code
		apiErr.Message = decoded.Error
	} else {
		apiErr.Message = body
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.kind = ErrBadRequest
	case http.StatusUnauthorized:
		apiErr.kind = ErrUnauthorized
	case http.StatusForbidden:
		apiErr.kind = ErrForbidden
	case http.StatusNotFound:
		apiErr.kind = ErrNotFound
	case http.StatusConflict:
		apiErr.kind = ErrConflict
	case http.StatusTooManyRequests:
		apiErr.kind = ErrTooManyRequests
	case http.StatusBadGateway:
		apiErr.kind = ErrBadGateway
	case http.StatusServiceUnavailable:
		apiErr.kind = ErrServiceUnavailable
	case http.StatusInternalServerError:
		apiErr.kind = ErrInternalServerError
	default:
		apiErr.kind = fmt.Errorf("http %d", resp.StatusCode())
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
	}

	return apiErr
}
