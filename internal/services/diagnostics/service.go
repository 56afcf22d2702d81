// Package diagnostics runs ad hoc SOAP calls (connectivity tests, status
// inquiries) and keeps their request/response log. It never touches the
// transmission history of documents.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/soap"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
)

// Operations recorded on call log rows
const (
	OperationTestConnection = "test_connection"
	OperationCheckStatus    = "check_status"
)

// Credentials resolves credentials and caches connectivity test results
type Credentials interface {
	Resolve(ctx context.Context, name string) (*vault.ResolvedCredential, error)
	RecordTest(ctx context.Context, service vault.ServiceName, ok bool, result string) error
}

// Caller performs one SOAP call
type Caller interface {
	Call(ctx context.Context, endpoint, soapAction string, envelope []byte) (*soap.Response, error)
}

// Options carries the SOAP actions of the two Beacukai operations
type Options struct {
	UploadAction string
	StatusAction string
}

// Service performs and logs diagnostic calls
type Service struct {
	db     *database.DB
	creds  Credentials
	caller Caller
	opts   Options
}

// NewService creates the diagnostics service
func NewService(db *database.DB, creds Credentials, caller Caller, opts Options) *Service {
	if opts.UploadAction == "" {
		opts.UploadAction = soap.ServiceNS + soap.UploadOperation
	}
	if opts.StatusAction == "" {
		opts.StatusAction = soap.ServiceNS + soap.StatusOperation
	}
	return &Service{db: db, creds: creds, caller: caller, opts: opts}
}

// StatusResult is the answer of a status inquiry
type StatusResult struct {
	RefNumber string              `json:"refNumber"`
	Success   bool                `json:"success"`
	Result    string              `json:"result"`
	Call      *models.SoapCallLog `json:"call"`
}

// TestConnection sends an empty probe to the service endpoint, logs the call
// and caches the result on the credential.
func (s *Service) TestConnection(ctx context.Context, service vault.ServiceName, actor string) (*models.SoapCallLog, error) {
	cred, err := s.creds.Resolve(ctx, string(service))
	if err != nil {
		var credErr *vault.CredentialError
		if errors.As(err, &credErr) {
			if recErr := s.creds.RecordTest(ctx, service, false, credErr.Reason); recErr != nil && !errors.Is(recErr, vault.ErrNotFound) {
				log.Printf("⚠️ Failed to cache test result for %s: %v", service, recErr)
			}
		}
		return nil, err
	}

	var envelope []byte
	action := s.opts.UploadAction
	if service == vault.ServiceStatus {
		action = s.opts.StatusAction
		envelope, err = soap.BuildStatusEnvelope(soap.StatusRequest{Username: cred.Username, Password: cred.Secret})
	} else {
		envelope, err = soap.BuildUploadEnvelope(soap.UploadRequest{Username: cred.Username, Password: cred.Secret})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build probe envelope: %w", err)
	}

	entry, callErr := s.call(ctx, cred, OperationTestConnection, action, envelope, actor, models.JSONB{
		"testMode": cred.TestMode,
	})
	if entry == nil {
		return nil, callErr
	}

	result := "OK"
	if callErr != nil {
		result = callErr.Error()
	}
	if err := s.creds.RecordTest(ctx, service, entry.Success, result); err != nil {
		log.Printf("⚠️ Failed to cache test result for %s: %v", service, err)
	}

	if entry.Success {
		log.Printf("✅ Connection test %s OK (%dms)", service, entry.DurationMs)
	} else {
		log.Printf("❌ Connection test %s failed: %s", service, result)
	}
	return entry, nil
}

// CheckStatus asks the status service about a submitted ref number
func (s *Service) CheckStatus(ctx context.Context, refNumber, actor string) (*StatusResult, error) {
	cred, err := s.creds.Resolve(ctx, string(vault.ServiceStatus))
	if err != nil {
		return nil, err
	}

	envelope, err := soap.BuildStatusEnvelope(soap.StatusRequest{
		Username:  cred.Username,
		Password:  cred.Secret,
		RefNumber: refNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build status envelope: %w", err)
	}

	entry, callErr := s.call(ctx, cred, OperationCheckStatus, s.opts.StatusAction, envelope, actor, models.JSONB{
		"refNumber": refNumber,
	})
	if entry == nil {
		return nil, callErr
	}

	res := &StatusResult{
		RefNumber: refNumber,
		Success:   entry.Success,
		Call:      entry,
	}
	if entry.Response != "" {
		res.Result = soap.ExtractResult([]byte(entry.Response), soap.StatusOperation)
	} else if callErr != nil {
		res.Result = callErr.Error()
	}
	return res, nil
}

// call performs the request and stores its log row. The returned entry is nil
// only when the log row could not be written.
func (s *Service) call(ctx context.Context, cred *vault.ResolvedCredential, operation, action string, envelope []byte, actor string, meta models.JSONB) (*models.SoapCallLog, error) {
	start := time.Now()
	resp, callErr := s.caller.Call(ctx, cred.Endpoint, action, envelope)

	entry := &models.SoapCallLog{
		ServiceName: string(cred.Service),
		Operation:   operation,
		Endpoint:    cred.Endpoint,
		Request:     soap.Redact(envelope),
		DurationMs:  time.Since(start).Milliseconds(),
		Success:     callErr == nil,
		Metadata:    meta,
		Actor:       actor,
	}
	if resp != nil {
		entry.Response = string(resp.Body)
		entry.HTTPStatus = resp.StatusCode
		entry.DurationMs = resp.Duration.Milliseconds()
	}
	if callErr != nil {
		entry.ErrorMessage = callErr.Error()
	}

	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to store soap call log: %w", err)
	}
	return entry, callErr
}

// Recent returns the latest diagnostic calls, newest first
func (s *Service) Recent(ctx context.Context, limit int) ([]models.SoapCallLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	var calls []models.SoapCallLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&calls).Error
	return calls, err
}
