package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		config := DefaultConfig()
		assert.NoError(t, config.Validate())
	})

	t.Run("host is normalized", func(t *testing.T) {
		config := NewConfig(WithHost("  http://localhost:11434/v1/  "))
		require.NoError(t, config.Validate())
		assert.Equal(t, "http://localhost:11434/v1", config.Host)
	})

	t.Run("missing host", func(t *testing.T) {
		config := NewConfig(WithHost(""))
		assert.ErrorIs(t, config.Validate(), ErrConfigInvalid)
	})

	t.Run("missing model", func(t *testing.T) {
		config := NewConfig(WithModel("  "))
		assert.ErrorIs(t, config.Validate(), ErrConfigInvalid)
	})

	t.Run("nil token source falls back to static none", func(t *testing.T) {
		config := NewConfig(WithTokenSource(nil))
		require.NoError(t, config.Validate())
		token, err := config.Tokens.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "none", token)
	})

	t.Run("non-positive timeout falls back to default", func(t *testing.T) {
		config := NewConfig(WithRequestTimeout(0))
		require.NoError(t, config.Validate())
		assert.Equal(t, 30*time.Second, config.RequestTimeout)
	})
}

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("sk-test").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-test", token)
}

func TestCachedTokenSource(t *testing.T) {
	t.Run("caches until refresh-ahead window", func(t *testing.T) {
		calls := 0
		source := NewCachedTokenSource(func(ctx context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		}, time.Minute)

		for i := 0; i < 3; i++ {
			token, err := source.Token(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "tok", token)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("refreshes ahead of expiry", func(t *testing.T) {
		calls := 0
		source := NewCachedTokenSource(func(ctx context.Context) (string, time.Time, error) {
			calls++
			// Expiry inside the refresh-ahead window forces renewal.
			return "tok", time.Now().Add(time.Second), nil
		}, time.Minute)

		_, err := source.Token(context.Background())
		require.NoError(t, err)
		_, err = source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("refresh errors propagate", func(t *testing.T) {
		wantErr := errors.New("sts unavailable")
		source := NewCachedTokenSource(func(ctx context.Context) (string, time.Time, error) {
			return "", time.Time{}, wantErr
		}, 0)

		_, err := source.Token(context.Background())
		assert.ErrorIs(t, err, wantErr)
	})
}
