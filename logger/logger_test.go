package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentLoggers(t *testing.T) {
	Init()

	for name, l := range map[string]*Logger{
		"scanner":  ForScanner(),
		"detector": ForDetector(),
		"worker":   ForWorker(),
		"render":   ForRender(),
		"notifier": ForNotifier(),
		"state":    ForState(),
	} {
		assert.NotNil(t, l, name)
	}
}

func TestWithFields(t *testing.T) {
	Init()

	base := Default
	assert.NotNil(t, base.WithField("key", "value"))
	assert.NotNil(t, base.WithFields(Fields{"a": 1, "b": "two"}))
}
