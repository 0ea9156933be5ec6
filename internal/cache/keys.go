package cache

type KeyPrefix string

const (
	PrefixLink KeyPrefix = "link" // link:short
)

type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build joins namespace, prefix and parts with ':'.
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

func (k *KeyBuilder) Link(shortCode string) string {
	return k.Build(PrefixLink, shortCode)
}
