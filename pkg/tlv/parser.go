// Package tlv maps BER-TLV encoded data onto Go structs through `tlv:"TAG"`
// struct tags, on top of github.com/moov-io/bertlv.
//
// Supported field kinds: []byte (last occurrence wins), [][]byte (every
// occurrence, in order), nested structs or struct pointers (constructed tags),
// slices of structs, and types implementing Unmarshaler. A []bertlv.TLV field
// tagged `tlv:",unknown"` collects the tags no other field consumed.
package tlv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshaler allows custom types to implement their own TLV parsing logic.
type Unmarshaler interface {
	UnmarshalTLV(data []byte) error
}

var tlvSliceType = reflect.TypeOf([]bertlv.TLV{})

// Unmarshal decodes data and maps it into target, a non-nil struct pointer.
func Unmarshal(data []byte, target interface{}) error {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}
	return UnmarshalFromPackets(packets, target)
}

// UnmarshalFromPackets maps already decoded packets into target.
func UnmarshalFromPackets(packets []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	t := v.Type()

	consumed := make([]bool, len(packets))
	unknown := -1

	for i := 0; i < t.NumField(); i++ {
		name, opt, _ := strings.Cut(t.Field(i).Tag.Get("tlv"), ",")
		if opt == "unknown" {
			unknown = i
			continue
		}
		if name == "" {
			continue
		}

		for idx, packet := range packets {
			if !strings.EqualFold(packet.Tag, name) {
				continue
			}
			if err := assign(packet, v.Field(i)); err != nil {
				return fmt.Errorf("tag %s: %w", strings.ToUpper(name), err)
			}
			consumed[idx] = true
		}
	}

	if unknown < 0 || t.Field(unknown).Type != tlvSliceType {
		return nil
	}

	var leftovers []bertlv.TLV
	for idx, packet := range packets {
		if !consumed[idx] {
			leftovers = append(leftovers, packet)
		}
	}
	if len(leftovers) > 0 {
		v.Field(unknown).Set(reflect.ValueOf(leftovers))
	}
	return nil
}

// assign stores one packet in field, growing it first when it is a repeated field.
func assign(packet bertlv.TLV, field reflect.Value) error {
	if field.Kind() == reflect.Slice && !isByteSlice(field.Type()) {
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := decodeInto(packet, elem); err != nil {
			return err
		}
		field.Set(reflect.Append(field, elem))
		return nil
	}
	return decodeInto(packet, field)
}

func decodeInto(packet bertlv.TLV, field reflect.Value) error {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTLV(rawValue(packet))
		}
	}

	switch {
	case isByteSlice(field.Type()):
		field.SetBytes(append([]byte(nil), rawValue(packet)...))
		return nil
	case field.Kind() == reflect.Struct:
		return decodeStruct(packet, field.Addr().Interface())
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return decodeStruct(packet, field.Interface())
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
}

func decodeStruct(packet bertlv.TLV, target interface{}) error {
	if len(packet.TLVs) > 0 {
		return UnmarshalFromPackets(packet.TLVs, target)
	}
	return Unmarshal(packet.Value, target)
}

// rawValue returns the value bytes, re-encoding children of constructed tags.
func rawValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
