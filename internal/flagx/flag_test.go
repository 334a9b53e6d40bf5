package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate values",
			args:    []string{"-a", "host:1", "-x", "1", "-d", "memory"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", "host:1", "-d", "memory"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-a=host:1", "-z=9"},
			allowed: []string{"--config", "-a"},
			want:    []string{"--config=conf.json", "-a=host:1"},
		},
		{
			name:    "flag without value",
			args:    []string{"-a", "-d", "memory"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", "-d", "memory"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1"},
			allowed: nil,
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFile([]string{"-a", "x", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigFile([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigFile([]string{"-a", "x"}))
}

func TestOverlayEnv(t *testing.T) {
	orig := lookupEnv
	t.Cleanup(func() { lookupEnv = orig })

	env := map[string]string{"SET": "value", "EMPTY": ""}
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	set, empty, missing := "default", "default", "default"
	OverlayEnv(map[string]*string{"SET": &set, "EMPTY": &empty, "MISSING": &missing})

	assert.Equal(t, "value", set)
	assert.Equal(t, "default", empty)
	assert.Equal(t, "default", missing)
}
