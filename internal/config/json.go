package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonConfig struct {
	DataDir string `json:"data_dir"`
	DBFile  string `json:"db_file"`
	Log     struct {
		File  string `json:"file"`
		Level string `json:"level"`
	} `json:"log"`
	Security struct {
		PinBackend          string   `json:"pin_backend"`
		ResetAfter          Duration `json:"reset_after"`
		RecoveryPromptAfter int      `json:"recovery_prompt_after"`
	} `json:"security"`
}

func parseJSON(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer f.Close()

	var jc jsonConfig
	if err := json.NewDecoder(f).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &Config{
		DataDir: jc.DataDir,
		DBFile:  jc.DBFile,
		Log: Log{
			File:  jc.Log.File,
			Level: jc.Log.Level,
		},
		Security: Security{
			PinBackend:          jc.Security.PinBackend,
			ResetAfter:          time.Duration(jc.Security.ResetAfter),
			RecoveryPromptAfter: jc.Security.RecoveryPromptAfter,
		},
	}, nil
}

// Duration accepts "72h" style strings or nanosecond numbers in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
