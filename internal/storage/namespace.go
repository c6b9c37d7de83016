package storage

import "strings"

const userPrefix = "user/"

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes every key under user/<id>/ so users never share data.
func Namespace(store Store, userID string) Store {
	return &namespaced{inner: store, prefix: NamespacePrefix(userID)}
}

func NamespacePrefix(userID string) string {
	return userPrefix + userID + "/"
}

func (n *namespaced) Get(key string) ([]byte, bool, error) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespaced) Set(key string, value []byte) error {
	return n.inner.Set(n.prefix+key, value)
}

func (n *namespaced) SetMany(values map[string][]byte) error {
	prefixed := make(map[string][]byte, len(values))
	for k, v := range values {
		prefixed[n.prefix+k] = v
	}
	return SetMany(n.inner, prefixed)
}

func (n *namespaced) Delete(key string) error {
	return n.inner.Delete(n.prefix + key)
}

func (n *namespaced) Keys(prefix string) ([]string, error) {
	keys, err := n.inner.Keys(n.prefix + prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, n.prefix))
	}
	return out, nil
}

// Users lists every user id that has at least one stored key.
func Users(store Store) ([]string, error) {
	keys, err := store.Keys(userPrefix)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, k := range keys {
		rest := strings.TrimPrefix(k, userPrefix)
		id, _, ok := strings.Cut(rest, "/")
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
