package redcap

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode parses CSV bytes into a Table. The first record is the header.
//
// Encoding is detected leniently: UTF-8 (with or without a byte-order mark)
// is preferred, and input that is not valid UTF-8 is read as Latin-1.
// Decoding never fails because of the encoding. Records shorter than the
// header get empty values for the missing columns, extra cells are dropped.
func Decode(data []byte) (*Table, error) {
	text := ToUTF8(data)

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, EmptyCSVError()
	}
	if err != nil {
		return nil, DecodeError(err)
	}
	if len(header) == 1 && header[0] == "" {
		return nil, EmptyCSVError()
	}

	res := &Table{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, DecodeError(err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// ToUTF8 strips a UTF-8 byte-order mark, or converts Latin-1 input to
// UTF-8 when data is not valid UTF-8.
func ToUTF8(data []byte) []byte {
	if bytes.HasPrefix(data, bom) {
		data = data[len(bom):]
	}
	if utf8.Valid(data) {
		return data
	}
	// Every byte is a valid ISO-8859-1 code point, this cannot fail.
	res, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return res
}

// Encode writes the header and then one record per row, in the order given.
// Columns missing from a row are written as empty cells.
func Encode(rows []Row, header []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, EncodeError(err)
	}

	rec := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return nil, EncodeError(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, EncodeError(err)
	}
	return buf.Bytes(), nil
}

// EncodeREDCap writes rows using all 18 standard REDCap columns.
func EncodeREDCap(rows []Row) ([]byte, error) {
	return Encode(rows, Columns())
}

// EncodeBOM is Encode with a UTF-8 byte-order mark in front, the form
// raw re-exports are downloaded in.
func EncodeBOM(rows []Row, header []string) ([]byte, error) {
	res, err := Encode(rows, header)
	if err != nil {
		return nil, err
	}
	return WithBOM(res), nil
}

// WithBOM prefixes data with the UTF-8 byte-order mark, which spreadsheet
// programs need to detect the encoding of downloaded files.
func WithBOM(data []byte) []byte {
	res := make([]byte, 0, len(bom)+len(data))
	res = append(res, bom...)
	return append(res, data...)
}
