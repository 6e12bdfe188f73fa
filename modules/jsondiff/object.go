package jsondiff

import (
	"bytes"
	"encoding/json"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Object is a JSON object that remembers member order, which encoding/json
// maps discard. Key order must stay observable for _keyOrder reporting.
type Object struct {
	m *linkedhashmap.Map
}

func NewObject() *Object {
	return &Object{m: linkedhashmap.New()}
}

func (o *Object) Set(key string, value any) {
	o.m.Put(key, value)
}

func (o *Object) Get(key string) (any, bool) {
	return o.m.Get(key)
}

func (o *Object) Len() int {
	return o.m.Size()
}

// Keys returns member names in insertion order.
func (o *Object) Keys() []string {
	raw := o.m.Keys()
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k.(string))
	}
	return keys
}

// MarshalJSON writes members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		value, _ := o.Get(key)
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
