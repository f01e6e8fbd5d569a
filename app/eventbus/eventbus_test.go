package eventbus

import (
	"testing"

	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectOptions(t *testing.T) {
	t.Run("no seed", func(t *testing.T) {
		opts, err := connectOptions(Config{URL: "nats://localhost:4222"})
		require.NoError(t, err)
		assert.Len(t, opts, 4)
	})

	t.Run("valid user seed adds nkey auth", func(t *testing.T) {
		kp, err := nkeys.CreateUser()
		require.NoError(t, err)
		seed, err := kp.Seed()
		require.NoError(t, err)

		opts, err := connectOptions(Config{URL: "nats://localhost:4222", NKeySeed: string(seed)})
		require.NoError(t, err)
		assert.Len(t, opts, 5)
	})

	t.Run("invalid seed", func(t *testing.T) {
		_, err := connectOptions(Config{NKeySeed: "not-a-seed"})
		assert.Error(t, err)
	})
}
