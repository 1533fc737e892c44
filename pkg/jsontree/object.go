package jsontree

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that preserves key insertion order.
// The zero value is an empty object ready to use.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty object with room for n members.
func NewObject(n int) *Object {
	return &Object{
		members: make([]Member, 0, n),
		index:   make(map[string]int, n),
	}
}

// ObjectOf builds an object from alternating key/value arguments.
// It panics if a key is not a string; it is meant for literals in code.
func ObjectOf(kv ...any) *Object {
	o := NewObject(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), From(kv[i+1]))
	}
	return o
}

// Kind implements Value.
func (o *Object) Kind() Kind { return KindObject }

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, o.Len())
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns the members in order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.index == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Delete removes key, keeping the order of the remaining members.
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := NewObject(len(o.members))
	for _, m := range o.members {
		out.Set(m.Key, Clone(m.Value))
	}
	return out
}

// Object returns the member under key if it is an object.
func (o *Object) Object(key string) (*Object, bool) {
	v, _ := o.Get(key)
	obj, ok := v.(*Object)
	return obj, ok
}

// Array returns the member under key if it is an array.
func (o *Object) Array(key string) (Array, bool) {
	v, _ := o.Get(key)
	arr, ok := v.(Array)
	return arr, ok
}

// Text returns the member under key if it is a string.
func (o *Object) Text(key string) (string, bool) {
	v, _ := o.Get(key)
	s, ok := v.(String)
	return string(s), ok
}

// Number returns the member under key if it is a number.
func (o *Object) Number(key string) (Number, bool) {
	v, _ := o.Get(key)
	n, ok := v.(Number)
	return n, ok
}

// Float returns the member under key as a float64 if it is a number.
func (o *Object) Float(key string) (float64, bool) {
	n, ok := o.Number(key)
	return n.Float64(), ok
}
