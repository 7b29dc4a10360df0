package vm

import "fmt"

// Conversion helpers between script Values and the plain Go types the
// host.Host capability methods expect. Unlike Truthy/Display (which coerce
// broadly for script-level operators), these are strict: a native call
// with a mistyped argument faults rather than silently coercing.

func asInt32(v Value) (int32, error) {
	switch v.Kind() {
	case KindInt32:
		return v.AsInt32(), nil
	case KindFloat32:
		return int32(v.AsFloat32()), nil
	default:
		return 0, fmt.Errorf("expected a number, got %s", v.Kind())
	}
}

func asUint32(v Value) (uint32, error) {
	n, err := asInt32(v)
	return uint32(n), err
}

func asBool(v Value) (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("expected a bool, got %s", v.Kind())
	}
	return v.AsBool(), nil
}

func asString(v Value) (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("expected a string, got %s", v.Kind())
	}
	return v.AsString(), nil
}

func asBytes(v Value) ([]byte, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("expected a byte array, got %s", v.Kind())
	}
	elems := v.AsArray().Elements
	out := make([]byte, len(elems))
	for i, e := range elems {
		n, err := asInt32(e)
		if err != nil {
			return nil, fmt.Errorf("byte array element %d: %w", i, err)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func bytesToValue(b []byte) Value {
	elems := make([]Value, len(b))
	for i, v := range b {
		elems[i] = Int32(int32(v))
	}
	return ArrayRef(&Array{Elements: elems})
}

func stringsToValue(ss []string) Value {
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = String(s)
	}
	return ArrayRef(&Array{Elements: elems})
}

// resultObject wraps a (value, error) host return into the Object shape
// script try/catch can inspect: {ok, value, error}. CALL_NATIVE can only
// push a single Value, and host operations failable per §6 return a Go
// error alongside their value, so this is the one shared convention all
// failable natives use instead of each improvising its own sentinel.
func resultObject(value Value, err error) Value {
	fields := map[string]Value{"ok": Bool(err == nil)}
	if err != nil {
		fields["value"] = Null()
		fields["error"] = String(err.Error())
	} else {
		fields["value"] = value
		fields["error"] = Null()
	}
	return ObjectRef(&Object{ClassName: "Result", Fields: fields})
}
