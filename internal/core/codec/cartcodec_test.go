package codec

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/minimarket/storefront/internal/core/domain"
)

func TestEncodeDecodeLine_RoundTrip(t *testing.T) {
	line := domain.CartLine{ProductID: 1, Quantity: 2, PriceCents: 399}

	token, err := EncodeLine(line)
	if err != nil {
		t.Fatalf("EncodeLine returned error: %v", err)
	}

	decoded, err := DecodeLine(token)
	if err != nil {
		t.Fatalf("DecodeLine returned error: %v", err)
	}
	if decoded != line {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, line)
	}
}

func TestEncodeLine_Deterministic(t *testing.T) {
	line := domain.CartLine{ProductID: 7, Quantity: 3, PriceCents: 299}

	a, _ := EncodeLine(line)
	b, _ := EncodeLine(line)
	if a != b {
		t.Fatalf("encoding is not deterministic: %q != %q", a, b)
	}
}

func TestEncodeDecodeCart_RoundTripPreservesOrder(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: 3, Quantity: 1, PriceCents: 499},
		{ProductID: 1, Quantity: 2, PriceCents: 399},
		{ProductID: 3, Quantity: 4, PriceCents: 499},
	}

	token, err := EncodeCart(lines)
	if err != nil {
		t.Fatalf("EncodeCart returned error: %v", err)
	}

	decoded, err := DecodeCart(token)
	if err != nil {
		t.Fatalf("DecodeCart returned error: %v", err)
	}
	if len(decoded) != len(lines) {
		t.Fatalf("expected %d lines, got %d", len(lines), len(decoded))
	}
	for i := range lines {
		if decoded[i] != lines[i] {
			t.Fatalf("line %d mismatch: got %+v, want %+v", i, decoded[i], lines[i])
		}
	}
}

func TestDecodeCart_EmptyList(t *testing.T) {
	token, err := EncodeCart(nil)
	if err != nil {
		t.Fatalf("EncodeCart(nil) returned error: %v", err)
	}

	decoded, err := DecodeCart(token)
	if err != nil {
		t.Fatalf("DecodeCart returned error: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(decoded))
	}
}

func TestDecodeLine_Malformed(t *testing.T) {
	b64 := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	cases := map[string]string{
		"not base64":        "!!!not-base64!!!",
		"not json":          b64("binary-blob-payload"),
		"json list":         b64(`[{"product_id":1,"quantity":2,"price_cents":399}]`),
		"unknown field":     b64(`{"product_id":1,"quantity":2,"price_cents":399,"name":"Milk"}`),
		"wrong type":        b64(`{"product_id":"1","quantity":2,"price_cents":399}`),
		"zero quantity":     b64(`{"product_id":1,"quantity":0,"price_cents":399}`),
		"negative quantity": b64(`{"product_id":1,"quantity":-2,"price_cents":399}`),
		"zero product id":   b64(`{"product_id":0,"quantity":2,"price_cents":399}`),
		"negative price":    b64(`{"product_id":1,"quantity":2,"price_cents":-399}`),
		"trailing data":     b64(`{"product_id":1,"quantity":2,"price_cents":399}{}`),
	}

	for name, token := range cases {
		if _, err := DecodeLine(token); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		} else {
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("%s: expected *DecodeError, got %T: %v", name, err, err)
			}
		}
	}
}

func TestDecodeCart_Malformed(t *testing.T) {
	b64 := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	cases := map[string]string{
		"not base64":   "%%%",
		"not json":     b64("garbage"),
		"json object":  b64(`{"product_id":1,"quantity":2,"price_cents":399}`),
		"json scalar":  b64(`42`),
		"bad line":     b64(`[{"product_id":1,"quantity":2,"price_cents":399},{"product_id":-5,"quantity":1,"price_cents":100}]`),
		"wrong shapes": b64(`["a","b"]`),
	}

	for name, token := range cases {
		if _, err := DecodeCart(token); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		} else {
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("%s: expected *DecodeError, got %T: %v", name, err, err)
			}
		}
	}
}
