package world

// Store is the process-wide shared variable table: string keys, mixed
// values, last-write-wins. It is the only cross-component channel besides
// entity commands. Access is single-goroutine (game loop) like all world
// state, so there is no locking; the single-writer-per-key discipline is
// documented on each key in keys.go.
type Store struct {
	m map[string]any
}

func NewStore() *Store {
	s := &Store{m: make(map[string]any, 32)}
	s.ResetGameKeys()
	return s
}

// GetRaw implements the untyped host contract: absent keys report ok=false
// and must be treated as "use the documented default", never as an error.
func (s *Store) GetRaw(key string) (any, bool) {
	v, ok := s.m[key]
	return v, ok
}

// SetRaw writes a value under a key, replacing any previous value.
func (s *Store) SetRaw(key string, v any) {
	s.m[key] = v
}

// ResetGameKeys restores every resettable key to its declared initial
// value. World facts (spawn coordinates, map geometry) are declared
// non-resettable and survive a restart.
func (s *Store) ResetGameKeys() {
	for _, r := range registeredKeys {
		if r.resettable {
			s.m[r.name] = r.def
		}
	}
}

type keyReg struct {
	name       string
	def        any
	resettable bool
}

var registeredKeys []keyReg

// Key is a typed handle to one shared variable. Reads of an absent key, or
// of a key whose dynamic type does not match (stringly-typed drift from a
// raw write), resolve to the declared default.
type Key[T any] struct {
	Name    string
	Default T
}

// NewKey declares a round-scoped key: ResetGameKeys restores its default.
func NewKey[T any](name string, def T) Key[T] {
	registeredKeys = append(registeredKeys, keyReg{name: name, def: def, resettable: true})
	return Key[T]{Name: name, Default: def}
}

// NewWorldKey declares a key that describes the world itself and is left
// untouched by a game reset.
func NewWorldKey[T any](name string, def T) Key[T] {
	registeredKeys = append(registeredKeys, keyReg{name: name, def: def, resettable: false})
	return Key[T]{Name: name, Default: def}
}

func (k Key[T]) Get(s *Store) T {
	if v, ok := s.m[k.Name]; ok {
		if tv, ok := v.(T); ok {
			return tv
		}
	}
	return k.Default
}

func (k Key[T]) Set(s *Store, v T) {
	s.m[k.Name] = v
}
