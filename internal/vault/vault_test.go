package vault

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/anhardeni/tps40-merak-sub001/internal/database/dbtest"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	return New(dbtest.Open(t), sealer)
}

func strPtr(s string) *string { return &s }

func TestNewSealerRejectsBadKeys(t *testing.T) {
	_, err := NewSealer("not-hex")
	assert.Error(t, err)

	_, err = NewSealer("0011")
	assert.Error(t, err)
}

func TestSecretRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":   "",
		"ascii":   "s3cr3t",
		"special": `p@ss<w>&"rd'; DROP TABLE--`,
		"utf8":    "kata-sandi-ñ-ü-日本語-🔐",
		"long":    strings.Repeat("Aé漢🙂", 60),
	}
	for name, plaintext := range cases {
		t.Run(name, func(t *testing.T) {
			secret, err := NewSecret(sealer, plaintext)
			require.NoError(t, err)

			res := secret.Reveal(sealer)
			require.True(t, res.OK())
			assert.Equal(t, plaintext, res.Value)
			assert.Equal(t, plaintext != "", secret.Present())
			assert.Equal(t, "[encrypted]", secret.String())
		})
	}
	assert.GreaterOrEqual(t, len([]rune(cases["long"])), 200)
}

func TestStoreAndRetrieve(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	long := strings.Repeat("ü", 250)
	require.NoError(t, v.Store(ctx, ServiceCoCoTangki, long, "admin"))

	got, err := v.Retrieve(ctx, ServiceCoCoTangki)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, long, *got)

	// Store on an existing row replaces only the secret
	require.NoError(t, v.Store(ctx, ServiceCoCoTangki, "", "admin"))
	got, err = v.Retrieve(ctx, ServiceCoCoTangki)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	_, err = v.Retrieve(ctx, ServiceStatus)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsUnknownService(t *testing.T) {
	v := newTestVault(t)
	err := v.Store(context.Background(), ServiceName("ftp_upload"), "x", "admin")
	assert.Error(t, err)
}

func TestRetrieveAfterKeyRotation(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.Save(ctx, Input{
		Service:  ServiceCoCoTangki,
		Username: "tps-merak",
		Secret:   strPtr("rahasia"),
		Endpoint: "https://example.test/soap",
		Active:   true,
		Actor:    "admin",
	})
	require.NoError(t, err)

	rotated, err := NewSealer(strings.Repeat("ab", 32))
	require.NoError(t, err)
	v.sealer = rotated

	got, err := v.Retrieve(ctx, ServiceCoCoTangki)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = v.Resolve(ctx, string(ServiceCoCoTangki))
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, ReasonUndecryptable, credErr.Reason)

	views, err := v.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].HasSecret)
	assert.False(t, views[0].SecretReadable)
}

func TestResolve(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	var credErr *CredentialError

	_, err := v.Resolve(ctx, "unknown")
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, ReasonUnknownService, credErr.Reason)

	_, err = v.Resolve(ctx, string(ServiceCoCoTangki))
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, ReasonMissing, credErr.Reason)

	_, err = v.Save(ctx, Input{
		Service:  ServiceCoCoTangki,
		Username: "tps-merak",
		Secret:   strPtr("rahasia"),
		Endpoint: "https://example.test/soap",
		Active:   false,
		Actor:    "admin",
	})
	require.NoError(t, err)

	_, err = v.Resolve(ctx, string(ServiceCoCoTangki))
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, ReasonInactive, credErr.Reason)

	_, err = v.GetActiveByService(ctx, ServiceCoCoTangki)
	assert.ErrorIs(t, err, ErrNotFound)

	// Activate with a nil secret keeps the stored one
	_, err = v.Save(ctx, Input{
		Service:  ServiceCoCoTangki,
		Username: "tps-merak",
		Endpoint: "https://example.test/soap",
		Active:   true,
		TestMode: true,
		Actor:    "admin",
	})
	require.NoError(t, err)

	cred, err := v.Resolve(ctx, string(ServiceCoCoTangki))
	require.NoError(t, err)
	assert.Equal(t, "tps-merak", cred.Username)
	assert.Equal(t, "rahasia", cred.Secret)
	assert.True(t, cred.TestMode)
	assert.NotContains(t, cred.String(), "rahasia")

	active, err := v.GetActiveByService(ctx, ServiceCoCoTangki)
	require.NoError(t, err)
	assert.True(t, IsConfigured(active))
}

func TestResolveIncomplete(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	_, err := v.Save(ctx, Input{
		Service:  ServiceStatus,
		Username: "tps-merak",
		Secret:   strPtr(""),
		Endpoint: "https://example.test/soap",
		Active:   true,
	})
	require.NoError(t, err)

	_, err = v.Resolve(ctx, string(ServiceStatus))
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, ReasonIncomplete, credErr.Reason)
}

func TestIsConfigured(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	secret, err := NewSecret(sealer, "x")
	require.NoError(t, err)

	full := &models.ServiceCredential{
		Username:         "u",
		SecretCiphertext: secret.Ciphertext(),
		Endpoint:         "https://example.test",
		IsActive:         true,
	}
	assert.True(t, IsConfigured(full))
	assert.False(t, IsConfigured(nil))

	noEndpoint := *full
	noEndpoint.Endpoint = ""
	assert.False(t, IsConfigured(&noEndpoint))

	inactive := *full
	inactive.IsActive = false
	assert.False(t, IsConfigured(&inactive))

	noSecret := *full
	noSecret.SecretCiphertext = nil
	assert.False(t, IsConfigured(&noSecret))
}

func TestRecordUsageIsAtomic(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, ServiceCoCoTangki, "x", "admin"))

	const senders = 20
	var wg sync.WaitGroup
	errs := make(chan error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- v.RecordUsage(ctx, ServiceCoCoTangki)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cred, err := v.Get(ctx, ServiceCoCoTangki)
	require.NoError(t, err)
	assert.EqualValues(t, senders, cred.UsageCount)
	assert.NotNil(t, cred.LastUsedAt)

	assert.ErrorIs(t, v.RecordUsage(ctx, ServiceStatus), ErrNotFound)
}

func TestRecordTest(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, ServiceStatus, "x", "admin"))
	require.NoError(t, v.RecordTest(ctx, ServiceStatus, false, "HTTP 503"))

	cred, err := v.Get(ctx, ServiceStatus)
	require.NoError(t, err)
	require.NotNil(t, cred.LastTestOK)
	assert.False(t, *cred.LastTestOK)
	assert.Equal(t, "HTTP 503", cred.LastTestResult)
	assert.NotNil(t, cred.LastTestedAt)
}

func TestValidateServiceNames(t *testing.T) {
	names, err := ValidateServiceNames([]string{"beacukai_cocotangki", "beacukai_status"})
	require.NoError(t, err)
	assert.Equal(t, []ServiceName{ServiceCoCoTangki, ServiceStatus}, names)

	_, err = ValidateServiceNames([]string{"beacukai_cocotangki", "beacukai_typo"})
	assert.Error(t, err)
}
