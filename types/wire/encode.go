// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023 The Blackcoin Core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

// littleEndian is a convenience variable since binary.LittleEndian is quite
// long.
var littleEndian = binary.LittleEndian

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	var scratch [8]byte

	switch e := element.(type) {
	case int32:
		b := scratch[0:4]
		littleEndian.PutUint32(b, uint32(e))
		_, err := w.Write(b)
		return err

	case uint32:
		b := scratch[0:4]
		littleEndian.PutUint32(b, e)
		_, err := w.Write(b)
		return err

	case int64:
		b := scratch[0:8]
		littleEndian.PutUint64(b, uint64(e))
		_, err := w.Write(b)
		return err

	case uint64:
		b := scratch[0:8]
		littleEndian.PutUint64(b, e)
		_, err := w.Write(b)
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	}

	return binary.Write(w, littleEndian, element)
}

// ReadElement reads the little endian representation of element from r.
func ReadElement(r io.Reader, element interface{}) error {
	var scratch [8]byte

	switch e := element.(type) {
	case *int32:
		b := scratch[0:4]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(b))
		return nil

	case *uint32:
		b := scratch[0:4]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = littleEndian.Uint32(b)
		return nil

	case *int64:
		b := scratch[0:8]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = int64(littleEndian.Uint64(b))
		return nil

	case *uint64:
		b := scratch[0:8]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		*e = littleEndian.Uint64(b)
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	}

	return binary.Read(r, littleEndian, element)
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= 0xffff {
		var buf [3]byte
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf[:])
		return err
	}

	if val <= 0xffffffff {
		var buf [5]byte
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf[:])
		return err
	}

	var buf [9]byte
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf[:])
	return err
}

// ReadVarInt deserializes a variable length integer from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	var disc [1]byte
	if _, err := io.ReadFull(r, disc[:]); err != nil {
		return 0, err
	}

	switch disc[0] {
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return littleEndian.Uint64(buf[:]), nil

	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(littleEndian.Uint32(buf[:])), nil

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(littleEndian.Uint16(buf[:])), nil

	default:
		return uint64(disc[0]), nil
	}
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarBytes serializes a variable length byte array to w as a varint
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	if err := WriteVarInt(w, uint64(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return err
}

// ReadVarBytes reads a variable length byte array.  An additional limit is
// applied to protect against memory exhaustion attacks from malformed input.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > maxAllowed {
		return nil, fmt.Errorf("%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
