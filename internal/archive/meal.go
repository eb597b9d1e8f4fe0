// Package archive implements the on-disk encoding of the meal journal.
//
// A meal record is a protobuf-wire message with stable field numbers:
//
//	1 name    bytes (UTF-8)   required
//	2 photo   message         optional: 1 content_type, 2 data
//	3 rating  zig-zag varint  optional, defaults to 0
//
// Unknown fields are skipped. An empty name is rejected; the rating is not
// range-checked on decode.
package archive

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
)

// Meal record field numbers.
const (
	fieldName   protowire.Number = 1
	fieldPhoto  protowire.Number = 2
	fieldRating protowire.Number = 3
)

// Photo sub-record field numbers.
const (
	fieldPhotoContentType protowire.Number = 1
	fieldPhotoData        protowire.Number = 2
)

// MarshalMeal encodes a single meal record.
func MarshalMeal(m *domain.Meal) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("marshal meal: nil meal")
	}
	return appendMeal(nil, m), nil
}

func appendMeal(b []byte, m *domain.Meal) []byte {
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, m.Name)

	if m.Photo != nil {
		var p []byte
		if m.Photo.ContentType != "" {
			p = protowire.AppendTag(p, fieldPhotoContentType, protowire.BytesType)
			p = protowire.AppendString(p, m.Photo.ContentType)
		}
		p = protowire.AppendTag(p, fieldPhotoData, protowire.BytesType)
		p = protowire.AppendBytes(p, m.Photo.Data)

		b = protowire.AppendTag(b, fieldPhoto, protowire.BytesType)
		b = protowire.AppendBytes(b, p)
	}

	b = protowire.AppendTag(b, fieldRating, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(m.Rating)))
	return b
}

// UnmarshalMeal decodes a single meal record. It fails with domain.ErrDecode
// when the name is missing, empty, not bytes-typed or not valid UTF-8, when the
// rating is not varint-typed, or when the wire data is malformed. A photo
// field of the wrong type is treated as absent.
func UnmarshalMeal(b []byte) (*domain.Meal, error) {
	var (
		m       domain.Meal
		hasName bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr("meal tag", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr("meal name", protowire.ParseError(n))
			}
			if !utf8.Valid(v) {
				return nil, decodeErr("meal name", fmt.Errorf("not valid UTF-8"))
			}
			m.Name = string(v)
			hasName = true
			b = b[n:]

		case num == fieldName:
			return nil, decodeErr("meal name", fmt.Errorf("unexpected wire type %d", typ))

		case num == fieldPhoto && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, decodeErr("meal photo", protowire.ParseError(n))
			}
			photo, err := unmarshalPhoto(v)
			if err != nil {
				return nil, err
			}
			m.Photo = photo
			b = b[n:]

		case num == fieldRating && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, decodeErr("meal rating", protowire.ParseError(n))
			}
			m.Rating = int(protowire.DecodeZigZag(v))
			b = b[n:]

		case num == fieldRating:
			return nil, decodeErr("meal rating", fmt.Errorf("unexpected wire type %d", typ))

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr("meal field", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	if !hasName {
		return nil, decodeErr("meal name", fmt.Errorf("missing"))
	}
	if m.Name == "" {
		return nil, decodeErr("meal name", fmt.Errorf("empty"))
	}
	return &m, nil
}

func unmarshalPhoto(b []byte) (*domain.Photo, error) {
	var p domain.Photo
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, decodeErr("photo tag", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType || (num != fieldPhotoContentType && num != fieldPhotoData) {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, decodeErr("photo field", protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, decodeErr("photo field", protowire.ParseError(n))
		}
		if num == fieldPhotoContentType {
			p.ContentType = string(v)
		} else {
			p.Data = bytes.Clone(v)
		}
		b = b[n:]
	}
	return &p, nil
}

func decodeErr(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, domain.ErrDecode, err)
}
