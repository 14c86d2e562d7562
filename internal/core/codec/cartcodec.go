// Package codec encodes cart state into opaque, transport-safe tokens
// that round-trip through the client between requests. The server keeps
// no record of issued tokens, so decoding is strict: anything that is not
// exactly the expected shape is rejected with a *DecodeError, and every
// decoded field is re-validated by the checkout pipeline against live
// server state before it is trusted.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/minimarket/storefront/internal/core/domain"
)

// DecodeError reports a malformed or out-of-shape cart token.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "cart codec: " + e.Reason
}

func decodeErrf(format string, args ...any) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

var encoding = base64.RawURLEncoding

// EncodeLine serializes a single cart line into an opaque token.
func EncodeLine(line domain.CartLine) (string, error) {
	raw, err := json.Marshal(line)
	if err != nil {
		return "", fmt.Errorf("cart codec: marshal line: %w", err)
	}
	return encoding.EncodeToString(raw), nil
}

// DecodeLine is the inverse of EncodeLine. It rejects malformed base64,
// malformed JSON, unknown fields, wrong field types, and out-of-range
// values with a *DecodeError.
func DecodeLine(token string) (domain.CartLine, error) {
	var line domain.CartLine
	if err := decodeStrict(token, &line); err != nil {
		return domain.CartLine{}, err
	}
	if err := validateLine(line); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

// EncodeCart serializes an ordered sequence of cart lines into one token.
func EncodeCart(lines []domain.CartLine) (string, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("cart codec: marshal cart: %w", err)
	}
	return encoding.EncodeToString(raw), nil
}

// DecodeCart is the inverse of EncodeCart. Line order is preserved. A
// token whose payload is not a list of well-formed lines is rejected.
func DecodeCart(token string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := decodeStrict(token, &lines); err != nil {
		return nil, err
	}
	for i, line := range lines {
		if err := validateLine(line); err != nil {
			return nil, decodeErrf("line %d: %s", i, err.(*DecodeError).Reason)
		}
	}
	return lines, nil
}

// decodeStrict unwraps base64 and decodes JSON into v, refusing unknown
// fields, type mismatches, and trailing data.
func decodeStrict(token string, v any) error {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return decodeErrf("invalid base64: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return decodeErrf("invalid payload: %v", err)
	}
	if dec.More() {
		return decodeErrf("trailing data after payload")
	}
	return nil
}

func validateLine(line domain.CartLine) error {
	switch {
	case line.ProductID <= 0:
		return decodeErrf("product_id must be positive, got %d", line.ProductID)
	case line.Quantity <= 0:
		return decodeErrf("quantity must be positive, got %d", line.Quantity)
	case line.PriceCents < 0:
		return decodeErrf("price_cents must not be negative, got %d", line.PriceCents)
	}
	return nil
}
