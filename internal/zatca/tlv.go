// Package zatca builds and parses the TLV payload carried by ZATCA
// (Saudi e-invoicing) QR codes.
//
// A record is one tag byte, one length byte and the UTF-8 value. The length
// byte caps every value at 255 bytes; longer values are rejected, never cut.
package zatca

import (
	"unicode/utf8"
)

// MaxValueLength is the largest value a one-byte length field can describe
const MaxValueLength = 255

// Tags of the five phase-1 QR fields, in mandatory order
const (
	TagSellerName   byte = 1
	TagVATNumber    byte = 2
	TagTimestamp    byte = 3
	TagInvoiceTotal byte = 4
	TagVATTotal     byte = 5
)

// Record is one decoded TLV record
type Record struct {
	Tag   byte   `json:"tag"`
	Value string `json:"value"`
}

// Encode encodes a single tag/value pair as tag || length || value
func Encode(tag byte, value string) ([]byte, error) {
	return appendRecord(make([]byte, 0, 2+len(value)), tag, value)
}

func appendRecord(dst []byte, tag byte, value string) ([]byte, error) {
	if tag == 0 {
		return nil, ErrInvalidTag(tag)
	}
	if !utf8.ValidString(value) {
		return nil, ErrInvalidUTF8(tag)
	}
	if len(value) > MaxValueLength {
		return nil, ErrValueTooLong(tag, len(value))
	}
	dst = append(dst, tag, byte(len(value)))
	return append(dst, value...), nil
}

// EncodeRecords concatenates the encoding of every record in order
func EncodeRecords(records []Record) ([]byte, error) {
	size := 0
	for _, r := range records {
		size += 2 + len(r.Value)
	}

	buf := make([]byte, 0, size)
	for _, r := range records {
		var err error
		if buf, err = appendRecord(buf, r.Tag, r.Value); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Decode parses consecutive TLV records until data is exhausted
func Decode(data []byte) ([]Record, error) {
	var records []Record
	for off := 0; off < len(data); {
		if off+2 > len(data) {
			return nil, ErrTruncated(off)
		}
		tag, length := data[off], int(data[off+1])
		if tag == 0 {
			return nil, ErrInvalidTag(tag)
		}
		start := off + 2
		if start+length > len(data) {
			return nil, ErrTruncated(off)
		}
		value := data[start : start+length]
		if !utf8.Valid(value) {
			return nil, ErrInvalidUTF8(tag)
		}
		records = append(records, Record{Tag: tag, Value: string(value)})
		off = start + length
	}
	return records, nil
}
