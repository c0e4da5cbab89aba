package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCountEmitsLine(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	client, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  "nominate",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	client.Count("session.login", 1, map[string]string{"role": "dean"})

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "nominate.session.login:1|c|#role:dean", string(buf[:n]))
}

func TestClientTagOrderIsStable(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	client, err := NewClient(Config{Enabled: true, Address: pc.LocalAddr().String()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	client.Count("guard.denied", 1, map[string]string{"role": "student", "path": "/dean/dashboard"})

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "guard.denied:1|c|#path:/dean/dashboard,role:student", string(buf[:n]))
}

func TestDisabledClientIsSafe(t *testing.T) {
	client, err := NewClient(Config{Enabled: false})
	require.NoError(t, err)

	client.Count("session.login", 1, nil)
	client.Timing("session.resolve", time.Millisecond, nil)
	assert.NoError(t, client.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	client.Count("session.login", 1, nil)
	client.Timing("session.resolve", time.Millisecond, nil)
	assert.NoError(t, client.Close())
}
