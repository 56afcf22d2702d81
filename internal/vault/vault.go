// Package vault stores per-service external credentials encrypted at rest.
package vault

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no credential row exists for a service
var ErrNotFound = errors.New("credential not found")

// Reasons a credential cannot be used for a transmission
const (
	ReasonUnknownService = "unknown service"
	ReasonMissing        = "no credential stored"
	ReasonInactive       = "credential is inactive"
	ReasonIncomplete     = "credential is incomplete (username, secret and endpoint are required)"
	ReasonUndecryptable  = "stored secret cannot be decrypted"
)

// CredentialError is fatal for a transmission: no network call is made
type CredentialError struct {
	Service string
	Reason  string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %s: %s", e.Service, e.Reason)
}

// ResolvedCredential is a decrypted, ready to use credential
type ResolvedCredential struct {
	Service  ServiceName
	Username string
	Secret   string
	Endpoint string
	TestMode bool
}

// String masks the secret so a resolved credential is safe to log
func (r ResolvedCredential) String() string {
	return fmt.Sprintf("%s(%s@%s)", r.Service, r.Username, r.Endpoint)
}

// Input describes a create or update of a credential. A nil Secret keeps the stored one.
type Input struct {
	Service  ServiceName
	Username string
	Secret   *string
	Endpoint string
	Active   bool
	TestMode bool
	Actor    string
}

// View is the listing representation; it never contains secret material
type View struct {
	models.ServiceCredential
	HasSecret      bool `json:"hasSecret"`
	SecretReadable bool `json:"secretReadable"`
	Configured     bool `json:"configured"`
}

// Vault reads and writes service credentials
type Vault struct {
	db     *database.DB
	sealer *Sealer
	now    func() time.Time
}

// New creates a vault
func New(db *database.DB, sealer *Sealer) *Vault {
	return &Vault{db: db, sealer: sealer, now: time.Now}
}

// Save creates or updates the credential of a service
func (v *Vault) Save(ctx context.Context, in Input) (*models.ServiceCredential, error) {
	if _, err := ParseServiceName(string(in.Service)); err != nil {
		return nil, err
	}

	var cred models.ServiceCredential
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("service_name = ?", string(in.Service)).First(&cred).Error
		isNew := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !isNew {
			return err
		}

		cred.ServiceName = string(in.Service)
		cred.Username = in.Username
		cred.Endpoint = in.Endpoint
		cred.IsActive = in.Active
		cred.IsTestMode = in.TestMode
		cred.UpdatedBy = in.Actor
		if in.Secret != nil {
			secret, err := NewSecret(v.sealer, *in.Secret)
			if err != nil {
				return err
			}
			cred.SecretCiphertext = secret.Ciphertext()
		}

		if isNew {
			cred.CreatedBy = in.Actor
			return tx.Create(&cred).Error
		}
		// Select("*") so false booleans are written too
		return tx.Model(&cred).Select("*").Updates(&cred).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save credential %s: %w", in.Service, err)
	}

	log.Printf("🔐 Credential saved: %s (active=%t, by %s)", in.Service, in.Active, in.Actor)
	return &cred, nil
}

// Store encrypts and stores only the secret of a service, creating the row if needed
func (v *Vault) Store(ctx context.Context, service ServiceName, plaintext, actor string) error {
	if _, err := ParseServiceName(string(service)); err != nil {
		return err
	}
	secret, err := NewSecret(v.sealer, plaintext)
	if err != nil {
		return err
	}

	res := v.db.WithContext(ctx).Model(&models.ServiceCredential{}).
		Where("service_name = ?", string(service)).
		Updates(map[string]interface{}{
			"secret_ciphertext": secret.Ciphertext(),
			"updated_by":        actor,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to store secret for %s: %w", service, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	cred := models.ServiceCredential{
		ServiceName:      string(service),
		SecretCiphertext: secret.Ciphertext(),
		CreatedBy:        actor,
		UpdatedBy:        actor,
	}
	if err := v.db.WithContext(ctx).Create(&cred).Error; err != nil {
		return fmt.Errorf("failed to store secret for %s: %w", service, err)
	}
	return nil
}

// Get loads the credential row of a service regardless of its active flag
func (v *Vault) Get(ctx context.Context, service ServiceName) (*models.ServiceCredential, error) {
	var cred models.ServiceCredential
	err := v.db.WithContext(ctx).Where("service_name = ?", string(service)).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Retrieve decrypts the secret of a service. A secret that cannot be decrypted
// yields a nil value without an error so listing pages keep working; callers
// about to transmit must use Resolve instead.
func (v *Vault) Retrieve(ctx context.Context, service ServiceName) (*string, error) {
	cred, err := v.Get(ctx, service)
	if err != nil {
		return nil, err
	}
	res := SecretFromCiphertext(cred.SecretCiphertext).Reveal(v.sealer)
	if !res.OK() {
		log.Printf("⚠️ Credential %s: secret unreadable (%v)", service, res.Err)
		return nil, nil
	}
	return &res.Value, nil
}

// GetActiveByService returns the credential only when its active flag is set
func (v *Vault) GetActiveByService(ctx context.Context, service ServiceName) (*models.ServiceCredential, error) {
	var cred models.ServiceCredential
	err := v.db.WithContext(ctx).
		Where("service_name = ? AND is_active = ?", string(service), true).
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// IsConfigured is true iff username, secret, endpoint and the active flag are all present
func IsConfigured(cred *models.ServiceCredential) bool {
	if cred == nil {
		return false
	}
	return cred.Username != "" &&
		holdsSecret(cred.SecretCiphertext) &&
		cred.Endpoint != "" &&
		cred.IsActive
}

// Resolve returns a decrypted credential ready for transmission, or a
// *CredentialError describing why it cannot be used.
func (v *Vault) Resolve(ctx context.Context, name string) (*ResolvedCredential, error) {
	service, err := ParseServiceName(name)
	if err != nil {
		return nil, &CredentialError{Service: name, Reason: ReasonUnknownService}
	}

	cred, err := v.Get(ctx, service)
	if errors.Is(err, ErrNotFound) {
		return nil, &CredentialError{Service: name, Reason: ReasonMissing}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential %s: %w", name, err)
	}
	if !cred.IsActive {
		return nil, &CredentialError{Service: name, Reason: ReasonInactive}
	}
	if !IsConfigured(cred) {
		return nil, &CredentialError{Service: name, Reason: ReasonIncomplete}
	}

	res := SecretFromCiphertext(cred.SecretCiphertext).Reveal(v.sealer)
	if !res.OK() {
		return nil, &CredentialError{Service: name, Reason: ReasonUndecryptable}
	}

	return &ResolvedCredential{
		Service:  service,
		Username: cred.Username,
		Secret:   res.Value,
		Endpoint: cred.Endpoint,
		TestMode: cred.IsTestMode,
	}, nil
}

// RecordUsage increments the usage counter and stamps the last use time in a
// single UPDATE, so concurrent senders never lose an increment.
func (v *Vault) RecordUsage(ctx context.Context, service ServiceName) error {
	res := v.db.WithContext(ctx).Model(&models.ServiceCredential{}).
		Where("service_name = ?", string(service)).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + ?", 1),
			"last_used_at": v.now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record usage of %s: %w", service, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordTest caches the result of a connectivity test on the credential
func (v *Vault) RecordTest(ctx context.Context, service ServiceName, ok bool, result string) error {
	res := v.db.WithContext(ctx).Model(&models.ServiceCredential{}).
		Where("service_name = ?", string(service)).
		Updates(map[string]interface{}{
			"last_tested_at":   v.now().UTC(),
			"last_test_ok":     ok,
			"last_test_result": result,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record test of %s: %w", service, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every credential without secret material
func (v *Vault) List(ctx context.Context) ([]View, error) {
	var creds []models.ServiceCredential
	if err := v.db.WithContext(ctx).Order("service_name ASC").Find(&creds).Error; err != nil {
		return nil, err
	}

	views := make([]View, 0, len(creds))
	for _, c := range creds {
		views = append(views, v.Describe(c))
	}
	return views, nil
}

// Describe builds the listing view of one credential
func (v *Vault) Describe(c models.ServiceCredential) View {
	secret := SecretFromCiphertext(c.SecretCiphertext)
	return View{
		ServiceCredential: c,
		HasSecret:         secret.Present(),
		SecretReadable:    secret.Present() && secret.Reveal(v.sealer).OK(),
		Configured:        IsConfigured(&c),
	}
}
