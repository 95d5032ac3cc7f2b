package parquetmeta

// KeyValue is one application defined key/value pair. Value is optional in the
// format, nil and empty are different.
type KeyValue struct {
	Key   string  `json:"key" yaml:"key"`
	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// KeyValueMetadata is the ordered list of key/value pairs of a file or column
// chunk. Order and duplicate keys are preserved as written. It serializes to
// a JSON or YAML sequence of {key, value} objects.
type KeyValueMetadata []KeyValue

// Get returns the value of the first pair with the given key. ok is false if
// there is no such pair or its value is unset.
func (kv KeyValueMetadata) Get(key string) (value string, ok bool) {
	for _, p := range kv {
		if p.Key == key {
			if p.Value == nil {
				return "", false
			}
			return *p.Value, true
		}
	}
	return "", false
}

// Keys returns the keys in file order.
func (kv KeyValueMetadata) Keys() []string {
	keys := make([]string, 0, len(kv))
	for _, p := range kv {
		keys = append(keys, p.Key)
	}
	return keys
}
