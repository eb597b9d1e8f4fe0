package archive

import (
	"bytes"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// Archive layout:
//
//	magic "FTMA" | version (1 byte) | body | BLAKE2b-256 digest of all preceding bytes
//
// The body is a protobuf-wire message: field 1 repeats the format version,
// field 2 holds one embedded meal record per meal, in journal order.
const (
	Magic   = "FTMA"
	Version = 1

	headerSize = len(Magic) + 1
	digestSize = blake2b.Size256
)

// Body field numbers.
const (
	fieldVersion protowire.Number = 1
	fieldMeal    protowire.Number = 2
)

// Encode serializes the full ordered meal sequence into an archive.
func Encode(meals []*domain.Meal) ([]byte, error) {
	b := make([]byte, 0, headerSize+digestSize+64*len(meals))
	b = append(b, Magic...)
	b = append(b, Version)

	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, Version)

	for i, m := range meals {
		if m == nil {
			return nil, fmt.Errorf("encode archive: meal %d is nil", i)
		}
		b = protowire.AppendTag(b, fieldMeal, protowire.BytesType)
		b = protowire.AppendBytes(b, appendMeal(nil, m))
	}

	sum := blake2b.Sum256(b)
	return append(b, sum[:]...), nil
}

// Decode parses an archive produced by Encode. Every failure wraps
// domain.ErrDecode. An archive with no meals yields an empty, non-nil slice.
func Decode(data []byte) ([]*domain.Meal, error) {
	if len(data) < headerSize+digestSize {
		return nil, decodeErr("archive", fmt.Errorf("truncated: %d bytes", len(data)))
	}
	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, decodeErr("archive", fmt.Errorf("bad magic %q", data[:len(Magic)]))
	}
	if v := data[len(Magic)]; v != Version {
		return nil, decodeErr("archive", fmt.Errorf("unsupported version %d", v))
	}

	payload, digest := data[:len(data)-digestSize], data[len(data)-digestSize:]
	sum := blake2b.Sum256(payload)
	if subtle.ConstantTimeCompare(sum[:], digest) != 1 {
		return nil, decodeErr("archive", fmt.Errorf("digest mismatch"))
	}

	body := payload[headerSize:]
	meals := make([]*domain.Meal, 0)

	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, decodeErr("archive tag", protowire.ParseError(n))
		}
		body = body[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, decodeErr("archive version", protowire.ParseError(n))
			}
			if v != Version {
				return nil, decodeErr("archive version", fmt.Errorf("body version %d does not match header", v))
			}
			body = body[n:]

		case num == fieldMeal && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(body)
			if n < 0 {
				return nil, decodeErr("archive meal", protowire.ParseError(n))
			}
			m, err := UnmarshalMeal(v)
			if err != nil {
				return nil, fmt.Errorf("meal %d: %w", len(meals), err)
			}
			meals = append(meals, m)
			body = body[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, decodeErr("archive field", protowire.ParseError(n))
			}
			body = body[n:]
		}
	}

	return meals, nil
}
