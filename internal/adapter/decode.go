// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/stock-watch/models"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// extractDetail reads the error message of a rejected request.
//
// Supported shapes:
//
//	{"detail": "Invalid or expired code"}
//	{"detail": [{"loc": [...], "msg": "field required"}]}
//	{"message": "..."}
//
// Anything else yields "".
func extractDetail(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		if msg := detail.Get("0.msg"); msg.Exists() {
			return msg.String()
		}
	}

	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String {
		return msg.String()
	}

	return ""
}

// decodeCatalog parses the {category: [stock, ...]} object of
// GET /market/popular. JSON object order is significant: the first category
// is the default selection, so the keys are walked in document order.
func decodeCatalog(body []byte) (models.Catalog, error) {
	if !gjson.ValidBytes(body) {
		return models.Catalog{}, fmt.Errorf("invalid catalog json")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return models.Catalog{}, fmt.Errorf("catalog is not an object")
	}

	var (
		catalog models.Catalog
		err     error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		var stocks []models.CatalogStock
		if err = json.Unmarshal([]byte(value.Raw), &stocks); err != nil {
			err = fmt.Errorf("decode category %q: %w", key.String(), err)
			return false
		}
		catalog.Categories = append(catalog.Categories, models.CatalogCategory{
			Name:   key.String(),
			Stocks: stocks,
		})
		return true
	})

	return catalog, err
}

func decodeJSON(resp *resty.Response, v any, what string) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("decode %s response: %w", what, err)
	}
	return nil
}
