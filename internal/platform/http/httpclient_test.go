package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)

	assert.Equal(t, DefaultTimeout, NewHTTPClient(0).Timeout)
}
