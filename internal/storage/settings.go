package storage

// SettingsBackend exposes the settings bucket as a plain key/value backend
// for credentials that live next to the journal data.
type SettingsBackend struct {
	s *Storage
}

// Settings returns a key/value view over the settings bucket.
func (s *Storage) Settings() *SettingsBackend {
	return &SettingsBackend{s: s}
}

func (b *SettingsBackend) Name() string { return "db" }

func (b *SettingsBackend) Get(key string) (string, bool, error) {
	return b.s.GetSetting(key)
}

func (b *SettingsBackend) Set(key, value string) error {
	return b.s.SetSetting(key, value)
}

func (b *SettingsBackend) Delete(key string) error {
	return b.s.DeleteSetting(key)
}
