package bencode

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// Code to decode bencoded data, e.g. a torrent file. There are only four datatypes, and its all done around individual bytes (text encoding does not apply here)

var (
	ErrUnexpectedEnd  = errors.New("unexpected end of input")
	ErrInvalidInteger = errors.New("invalid integer")
	ErrInvalidLength  = errors.New("invalid string length")
	ErrUnknownTypeTag = errors.New("unknown type tag")
	ErrTrailingData   = errors.New("trailing data after value")
	ErrTooDeep        = errors.New("nesting depth limit exceeded")
)

// Torrent files are shallow in practice; anything past this is adversarial input
const max_depth = 1000

// Decode parses a single complete bencoded value. Dictionaries become
// map[string]any, with a later duplicate key overwriting an earlier one
func Decode(data []byte) (any, error) {
	return decode_full(data, false)
}

// DecodeOrdered parses a single complete bencoded value, keeping dictionary
// entries in their original order (as *Dict) so the value can be re-encoded
// byte-for-byte identical to the input
func DecodeOrdered(data []byte) (any, error) {
	return decode_full(data, true)
}

func decode_full(data []byte, ordered bool) (any, error) {
	value, remainder, err := decode_value(data, ordered, 0)
	if err != nil {
		return nil, err
	}
	if len(remainder) != 0 {
		return nil, fmt.Errorf("%w: %d byte(s) remain", ErrTrailingData, len(remainder))
	}
	return value, nil
}

func decode_value(data []byte, ordered bool, depth int) (any, []byte, error) {
	if depth > max_depth {
		return nil, nil, ErrTooDeep
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w - no value found", ErrUnexpectedEnd)
	}

	switch {
	case data[0] == 'i':
		return parse_int(data)
	case data[0] == 'l':
		return parse_list(data, ordered, depth)
	case data[0] == 'd':
		return parse_dict(data, ordered, depth)
	case data[0] >= '0' && data[0] <= '9':
		return parse_string(data)
	}

	return nil, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTypeTag, data[0])
}

func parse_int(data []byte) (any, []byte, error) {
	s := 1
	e := s
	if e < len(data) && data[e] == '-' {
		e++
	}
	digits_start := e
	for e < len(data) && data[e] >= '0' && data[e] <= '9' {
		e++
	}

	if e >= len(data) {
		return nil, nil, fmt.Errorf("%w - integer is missing its 'e' terminator", ErrUnexpectedEnd)
	} else if e == digits_start {
		return nil, nil, fmt.Errorf("%w - no number specified", ErrInvalidInteger)
	} else if data[e] != 'e' {
		return nil, nil, fmt.Errorf("%w - unexpected byte 0x%02x", ErrInvalidInteger, data[e])
	}

	negative := digits_start > s
	if data[digits_start] == '0' && (e != digits_start+1 || negative) {
		return nil, nil, fmt.Errorf("%w - cannot start with 0 or be negative 0", ErrInvalidInteger)
	}

	value := new(big.Int)
	value.SetString(string(data[s:e]), 10) // digits are already validated, so this cannot fail
	return value, data[e+1:], nil
}

func parse_string(data []byte) (any, []byte, error) {
	i := 0
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if i >= len(data) {
		return nil, nil, fmt.Errorf("%w - length prefix is missing its separator colon", ErrUnexpectedEnd)
	}
	if data[i] != ':' {
		return nil, nil, fmt.Errorf("%w - missing separator colon", ErrInvalidLength)
	}

	// NOTE: leading zeroes in the length prefix are tolerated ('02:aa' decodes fine).
	// Existing hashes were computed over inputs accepted this way, so the rule stays loose.
	length, err := strconv.Atoi(string(data[:i]))
	if err != nil {
		return nil, nil, fmt.Errorf("%w - length prefix out of range", ErrInvalidLength)
	}

	rest := data[i+1:]
	if len(rest) < length {
		return nil, nil, fmt.Errorf("%w - string is shorter than its length header", ErrUnexpectedEnd)
	}
	return string(rest[:length]), rest[length:], nil
}

func parse_list(data []byte, ordered bool, depth int) (any, []byte, error) {
	data = data[1:]
	result := []any{}
	for {
		if len(data) == 0 {
			return nil, nil, fmt.Errorf("%w - list is missing its 'e' terminator", ErrUnexpectedEnd)
		}
		if data[0] == 'e' {
			return result, data[1:], nil
		}
		value, remainder, err := decode_value(data, ordered, depth+1)
		if err != nil {
			return nil, nil, err
		}
		result = append(result, value)
		data = remainder
	}
}

func parse_dict(data []byte, ordered bool, depth int) (any, []byte, error) {
	data = data[1:]
	var plain map[string]any
	var in_order *Dict
	if ordered {
		in_order = NewDict()
	} else {
		plain = map[string]any{}
	}

	for {
		if len(data) == 0 {
			return nil, nil, fmt.Errorf("%w - dictionary is missing its 'e' terminator", ErrUnexpectedEnd)
		}
		if data[0] == 'e' {
			if ordered {
				return in_order, data[1:], nil
			}
			return plain, data[1:], nil
		}
		if data[0] < '0' || data[0] > '9' {
			return nil, nil, fmt.Errorf("%w: 0x%02x - dictionary keys should be strings", ErrUnknownTypeTag, data[0])
		}

		key, remainder, err := parse_string(data)
		if err != nil {
			return nil, nil, err
		}
		value, remainder, err := decode_value(remainder, ordered, depth+1)
		if err != nil {
			return nil, nil, err
		}

		if ordered {
			in_order.Add(key.(string), value)
		} else {
			plain[key.(string)] = value
		}
		data = remainder
	}
}
