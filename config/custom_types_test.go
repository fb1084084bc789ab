/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestByteSize_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		yaml    string
		want    ByteSize
		wantErr bool
	}{
		{"integer", `1024`, "size: 1024", ByteSize(1024), false},
		{"human-readable", `"10MB"`, "size: 10MB", ByteSize(10 * 1024 * 1024), false},
		{"k8s suffix", `"2Mi"`, "size: 2Mi", ByteSize(2 * 1024 * 1024), false},
		{"invalid format", `"invalid"`, "size: invalid", 0, true},
		{"negative value", `"-1024"`, "size: -1024", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b ByteSize
			err := json.Unmarshal([]byte(tt.json), &b)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, b)
			}

			var cfg struct{ Size ByteSize }
			err = yaml.Unmarshal([]byte(tt.yaml), &cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, cfg.Size)
			}
		})
	}
}

func TestTimeDuration_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeDuration
		wantErr bool
	}{
		{"seconds", `60`, TimeDuration(time.Minute), false},
		{"fractional seconds", `0.5`, TimeDuration(500 * time.Millisecond), false},
		{"human-readable", `"1m30s"`, TimeDuration(90 * time.Second), false},
		{"invalid", `"soon"`, 0, true},
		{"negative", `"-1s"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d TimeDuration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, d)

			var cfg struct{ Window TimeDuration }
			require.NoError(t, yaml.Unmarshal([]byte("window: "+tt.input), &cfg))
			require.Equal(t, tt.want, cfg.Window)
		})
	}
}

func TestViperAdapter_GetByteSize(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(`{"a":"250M","b":2048,"c":"bad","d":-1}`), DataTypeJSON))

	size, err := va.GetByteSize("a")
	require.NoError(t, err)
	require.Equal(t, ByteSize(250*1024*1024), size)

	size, err = va.GetByteSize("b")
	require.NoError(t, err)
	require.Equal(t, ByteSize(2048), size)

	size, err = va.GetByteSize("missing")
	require.NoError(t, err)
	require.Equal(t, ByteSize(0), size)

	_, err = va.GetByteSize("c")
	require.ErrorContains(t, err, "c: invalid byte size format")

	_, err = va.GetByteSize("d")
	require.ErrorContains(t, err, "negative value")
}
