package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.in, &bytes.Buffer{}).GetLevel())
		})
	}
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)
	log.WithField("zoom", 12).Info("Map rendered")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "Map rendered")
	assert.Contains(t, out, "zoom:12")
	assert.Contains(t, out, "INFO")
	assert.NotContains(t, out, "hidden")
}
