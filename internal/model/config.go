package model

// Config holds application configuration (singleton).
type Config struct {
	Key string `json:"key"`
	// OwnerKey identifies this installation's plants to a remote server.
	OwnerKey string `json:"owner_key"`
}

// SetKey sets the database key for this config.
func (c *Config) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this config.
func (c *Config) GetKey() string {
	return c.Key
}

// NewConfig creates a new config with the given owner key.
func NewConfig(ownerKey string) *Config {
	return &Config{
		Key:      KeyConfig,
		OwnerKey: ownerKey,
	}
}
