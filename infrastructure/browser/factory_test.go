package browser

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"webpom/infrastructure/config"
)

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(&config.Config{Browser: "firefox"}, logrus.New())
	assert.ErrorContains(t, err, "unknown browser backend")
}
