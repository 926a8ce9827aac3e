package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/glimpse/internal/domain"
)

func TestError(t *testing.T) {
	t.Run("should match sentinels by kind through wrapping", func(t *testing.T) {
		err := fmt.Errorf("ask failed: %w", domain.NewAPIError(domain.VendorGemini, 404, `{"error":"NOT_FOUND"}`))

		require.ErrorIs(t, err, domain.ErrAPI)
		require.NotErrorIs(t, err, domain.ErrNetwork)
		require.Equal(t, domain.KindAPI, domain.ErrorKindOf(err))

		var vendorErr *domain.Error
		require.ErrorAs(t, err, &vendorErr)
		require.Equal(t, 404, vendorErr.StatusCode)
		require.Equal(t, `{"error":"NOT_FOUND"}`, vendorErr.Body)
	})

	t.Run("should expose the transport cause", func(t *testing.T) {
		err := domain.NewNetworkError(domain.VendorAnthropic, context.Canceled)

		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, domain.ErrNetwork)
	})

	t.Run("should describe vendor, status and body", func(t *testing.T) {
		err := domain.NewAPIError(domain.VendorOpenAI, 401, "bad key")
		require.Equal(t, "openai: request failed (status 401): bad key", err.Error())

		missing := domain.NewMissingAPIKeyError(domain.VendorPerplexity)
		require.Contains(t, missing.Error(), "perplexity: API key is missing")

		unsupported := domain.NewUnsupportedError(domain.VendorPerplexity, "audio summary")
		require.Equal(t, "perplexity: audio summary is not supported", unsupported.Error())
	})

	t.Run("should report no kind for foreign errors", func(t *testing.T) {
		require.Empty(t, domain.ErrorKindOf(errors.New("plain")))
		require.Empty(t, domain.ErrorKindOf(nil))
	})
}
