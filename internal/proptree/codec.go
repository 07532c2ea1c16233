package proptree

// Encode serializes v into the property-tree binary format: a tag byte,
// an any-type-flag byte (always false — this codec only ever emits
// homogeneous trees), and the type-specific payload.
func Encode(v Value) ([]byte, error) {
	w := NewWriter()
	if err := encodeInto(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeInto(w *Writer, v Value) error {
	tag, err := tagOf(v)
	if err != nil {
		return err
	}
	w.WriteU8(uint8(tag))
	w.WriteBool(false) // any-type-flag

	switch val := v.(type) {
	case Bool:
		w.WriteBool(bool(val))
		return nil
	case Number:
		w.WriteDouble(float64(val))
		return nil
	case Str:
		return w.WriteStringProperty(string(val))
	case List:
		w.WriteOptimU32(uint32(len(val)))
		for _, elem := range val {
			if err := encodeInto(w, elem); err != nil {
				return err
			}
		}
		return nil
	case *Dict:
		w.WriteU32(uint32(val.Len()))
		for _, key := range val.Keys() {
			if err := w.WriteString(key); err != nil {
				return err
			}
			elem, _ := val.Get(key)
			if err := encodeInto(w, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnknownPropertyType{}
	}
}

func tagOf(v Value) (Tag, error) {
	switch v.(type) {
	case Bool:
		return TagBool, nil
	case Number:
		return TagNumber, nil
	case Str:
		return TagString, nil
	case List:
		return TagList, nil
	case *Dict:
		return TagDictionary, nil
	default:
		return 0, &UnknownPropertyType{}
	}
}

// Decode reads one property-tree node from data, returning the decoded
// Value and the unconsumed remainder of data.
func Decode(data []byte) (Value, []byte, error) {
	r := NewReader(data)
	v, err := decodeFrom(r)
	if err != nil {
		return nil, nil, err
	}
	return v, data[len(data)-r.Remaining():], nil
}

func decodeFrom(r *Reader) (Value, error) {
	tagByte, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	tag := Tag(tagByte)

	if _, err := r.ReadBool(); err != nil { // any-type-flag, discarded
		return nil, err
	}

	switch tag {
	case TagBool:
		b, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case TagNumber:
		d, err := r.ReadDouble()
		if err != nil {
			return nil, err
		}
		return Number(d), nil
	case TagString:
		s, err := r.ReadStringProperty()
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case TagList:
		n, err := r.ReadOptimU32()
		if err != nil {
			return nil, err
		}
		list := make(List, 0, n)
		for i := uint32(0); i < n; i++ {
			elem, err := decodeFrom(r)
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case TagDictionary:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		dict := NewDict()
		for i := uint32(0); i < n; i++ {
			key, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			elem, err := decodeFrom(r)
			if err != nil {
				return nil, err
			}
			dict.Set(key, elem)
		}
		return dict, nil
	default:
		return nil, &UnknownPropertyType{Tag: tag}
	}
}
