// Package normalize maps the heterogeneous response shapes returned by the
// remote API into canonical types. Identifier and score fields appear under
// several names depending on endpoint and backend version; each field has a
// fixed probe priority documented on its helper, and nothing here ever
// raises on malformed input.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/altibbe/transparency/internal/models"
)

// EntityID probes `_id` then `id`, returning the first value present.
func EntityID(raw map[string]any) string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := raw[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// scorePaths is the probe order for the transparency score. The first path
// whose value is present wins, even if it fails numeric coercion.
var scorePaths = [][]string{
	{"transparencyScore"},
	{"score"},
	{"analysis", "transparencyScore"},
	{"aiAnalysis", "transparencyScore"},
	{"analysis", "score"},
}

// Score probes the known score locations and coerces the first present value
// to a number. Anything non-coercible, non-finite, or absent yields 0.
func Score(raw map[string]any) int {
	for _, path := range scorePaths {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		return coerceScore(v)
	}
	return 0
}

// Report converts a raw report payload into the canonical form. The payload
// may be enveloped under `data` or bare. Returns nil when no report object
// can be located.
func Report(raw json.RawMessage) *models.Report {
	obj := asObject(Unwrap(raw))
	if obj == nil {
		return nil
	}
	r := &models.Report{
		ID:                EntityID(obj),
		Summary:           asString(obj["summary"]),
		TransparencyScore: Score(obj),
		CreatedAt:         asTime(obj["createdAt"]),
	}
	applyProductRef(r, obj)
	if analysis := asObject(obj["analysis"]); analysis != nil {
		r.Analysis = models.Analysis{
			Strengths:       asStringSlice(analysis["strengths"]),
			Improvements:    asStringSlice(analysis["improvements"]),
			Recommendations: asStringSlice(analysis["recommendations"]),
		}
	}
	return r
}

// ReportList converts a list payload into canonical summaries. The payload
// may be an envelope (`{data: [...]}`) or a bare array; anything else yields
// an empty slice.
func ReportList(raw json.RawMessage) []*models.ReportSummary {
	var arr []json.RawMessage
	if err := json.Unmarshal(Unwrap(raw), &arr); err != nil {
		return nil
	}
	out := make([]*models.ReportSummary, 0, len(arr))
	for _, item := range arr {
		if s := ReportListItem(item); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// ReportListItem converts one list entry; returns nil for non-objects.
func ReportListItem(raw json.RawMessage) *models.ReportSummary {
	obj := asObject(raw)
	if obj == nil {
		return nil
	}
	s := &models.ReportSummary{
		ID:                EntityID(obj),
		TransparencyScore: Score(obj),
		CreatedAt:         asTime(obj["createdAt"]),
		Status:            asString(obj["status"]),
	}
	// Product reference: `productId` then `product`; embedded objects only,
	// an unresolved identifier string means "product not loaded".
	for _, key := range []string{"productId", "product"} {
		if v, ok := obj[key]; ok && v != nil {
			if p := asProduct(v); p != nil {
				s.Product = p
			}
			break
		}
	}
	return s
}

// Unwrap returns the payload under a `data` envelope key, or the input
// unchanged when it is not enveloped.
func Unwrap(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return envelope.Data
	}
	return raw
}

func applyProductRef(r *models.Report, obj map[string]any) {
	for _, key := range []string{"productId", "product"} {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if p := asProduct(v); p != nil {
			r.Product = p
		} else if s := asString(v); s != "" {
			r.ProductID = s
		}
		return
	}
}

func asProduct(v any) *models.ProductInfo {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &models.ProductInfo{
		Name:        asString(obj["name"]),
		Category:    asString(obj["category"]),
		Brand:       asString(obj["brand"]),
		Ingredients: asStringSlice(obj["ingredients"]),
		Description: asString(obj["description"]),
	}
}

func lookup(obj map[string]any, path []string) (any, bool) {
	cur := any(obj)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func coerceScore(v any) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func asObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		var obj map[string]any
		if err := json.Unmarshal(v, &obj); err != nil {
			return nil
		}
		return obj
	case []byte:
		var obj map[string]any
		if err := json.Unmarshal(v, &obj); err != nil {
			return nil
		}
		return obj
	default:
		return nil
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
