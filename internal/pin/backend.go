package pin

// Backend persists string values by key.
type Backend interface {
	Name() string
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryBackend keeps values in process memory only.
type MemoryBackend struct {
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	delete(m.values, key)
	return nil
}
