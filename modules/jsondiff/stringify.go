package jsondiff

import (
	"encoding/json"
	"strings"
)

// frame is one traversal position of the iterative serializer. Serialization
// keeps an explicit stack instead of recursing so arbitrarily deep documents
// cannot exhaust the call stack.
type frame struct {
	obj  *Object
	keys []string
	arr  []any
	next int
}

func (f *frame) size() int {
	if f.obj != nil {
		return len(f.keys)
	}
	return len(f.arr)
}

// Stringify serializes a decoded value tree. An empty indent produces the
// compact form; otherwise members are placed one per line.
func Stringify(v any, indent string) string {
	var b strings.Builder
	stack := make([]*frame, 0, 8)

	push := func(v any) {
		switch t := v.(type) {
		case *Object:
			b.WriteByte('{')
			stack = append(stack, &frame{obj: t, keys: t.Keys()})
		case []any:
			b.WriteByte('[')
			stack = append(stack, &frame{arr: t})
		default:
			writeLeaf(&b, t)
		}
	}
	newline := func(depth int) {
		if indent == "" {
			return
		}
		b.WriteByte('\n')
		for i := 0; i < depth; i++ {
			b.WriteString(indent)
		}
	}

	push(v)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next >= f.size() {
			if f.size() > 0 {
				newline(len(stack) - 1)
			}
			if f.obj != nil {
				b.WriteByte('}')
			} else {
				b.WriteByte(']')
			}
			stack = stack[:len(stack)-1]
			continue
		}
		if f.next > 0 {
			b.WriteByte(',')
		}
		newline(len(stack))
		var child any
		if f.obj != nil {
			key := f.keys[f.next]
			writeLeaf(&b, key)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			child, _ = f.obj.Get(key)
		} else {
			child = f.arr[f.next]
		}
		f.next++
		push(child)
	}
	return b.String()
}

func writeLeaf(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case json.Number:
		b.WriteString(t.String())
	case string:
		data, _ := json.Marshal(t)
		b.Write(data)
	default:
		data, _ := json.Marshal(t)
		b.Write(data)
	}
}
