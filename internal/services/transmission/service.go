// Package transmission sends documents to the Beacukai CoCoTangki service
// and keeps the per-document projection and the attempt log consistent.
package transmission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/soap"
	"github.com/anhardeni/tps40-merak-sub001/internal/validation"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// FormatCocotangki is the format recorded on transmission log rows
const FormatCocotangki = "cocotangki"

// Credentials resolves and meters the upload credential
type Credentials interface {
	Resolve(ctx context.Context, name string) (*vault.ResolvedCredential, error)
	RecordUsage(ctx context.Context, service vault.ServiceName) error
}

// Caller performs one SOAP call
type Caller interface {
	Call(ctx context.Context, endpoint, soapAction string, envelope []byte) (*soap.Response, error)
}

// DefaultClaimTTL bounds how long a crashed attempt blocks its document
const DefaultClaimTTL = 5 * time.Minute

// Options tune the service
type Options struct {
	UploadAction    string
	BulkConcurrency int
	ClaimTTL        time.Duration // age after which an unfinished claim may be taken over
}

// Service orchestrates validation, encoding, the SOAP call and bookkeeping
type Service struct {
	db          *database.DB
	creds       Credentials
	caller      Caller
	notifier    Notifier
	action      string
	concurrency int
	claimTTL    time.Duration
	now         func() time.Time
}

// NewService creates the transmission service
func NewService(db *database.DB, creds Credentials, caller Caller, opts Options) *Service {
	if opts.BulkConcurrency < 1 {
		opts.BulkConcurrency = 1
	}
	if opts.UploadAction == "" {
		opts.UploadAction = soap.ServiceNS + soap.UploadOperation
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = DefaultClaimTTL
	}
	return &Service{
		db:          db,
		creds:       creds,
		caller:      caller,
		action:      opts.UploadAction,
		concurrency: opts.BulkConcurrency,
		claimTTL:    opts.ClaimTTL,
		now:         time.Now,
	}
}

// SetNotifier registers the receiver of outcomes
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) load(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Preload("Tangki", func(db *gorm.DB) *gorm.DB {
			return db.Order("urutan ASC, id ASC")
		}).
		First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", id, err)
	}
	return &doc, nil
}

// GenerateXML renders the authority XML of a document
func (s *Service) GenerateXML(ctx context.Context, id uint) ([]byte, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return cocotangki.Encode(doc)
}

// Validate loads a document and validates it
func (s *Service) Validate(ctx context.Context, id uint) (validation.Result, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(doc), nil
}

// History returns every attempt of a document, newest first
func (s *Service) History(ctx context.Context, id uint) ([]models.TransmissionLog, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var logs []models.TransmissionLog
	err := s.db.WithContext(ctx).
		Where("document_id = ?", id).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}

// Send transmits a document. The returned error is non-nil only when the
// attempt was rejected before the network (validation, credential, schema,
// already sent) or could not be persisted; transmission failures are
// reported in the Outcome.
func (s *Service) Send(ctx context.Context, id uint, actor string) (*Outcome, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, doc, actor)
}

// Retry re-sends a document that is not yet sent, re-encoding it from its
// current data.
func (s *Service) Retry(ctx context.Context, id uint, actor string) (*Outcome, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.CocotangkiStatus == models.StateSent {
		return nil, ErrAlreadySent
	}
	log.Printf("🔁 Retrying CoCoTangki transmission of %s (last state: %s)", doc.RefNumber, doc.CocotangkiStatus)
	return s.send(ctx, doc, actor)
}

func (s *Service) send(ctx context.Context, doc *models.Document, actor string) (*Outcome, error) {
	if !doc.CocotangkiStatus.CanTransition(models.StateSent) {
		return nil, ErrAlreadySent
	}

	result := validation.Validate(doc)
	if !result.Valid {
		return nil, &ValidationError{Result: result}
	}

	cred, err := s.creds.Resolve(ctx, string(vault.ServiceCoCoTangki))
	if err != nil {
		return nil, err
	}

	payload, err := cocotangki.Encode(doc)
	if err != nil {
		log.Printf("❌ CoCoTangki encoder defect for %s: %v", doc.RefNumber, err)
		return nil, fmt.Errorf("failed to encode %s: %w", doc.RefNumber, err)
	}

	envelope, err := soap.BuildUploadEnvelope(soap.UploadRequest{
		Username: cred.Username,
		Password: cred.Secret,
		Filename: cocotangki.Filename(doc.RefNumber),
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build envelope for %s: %w", doc.RefNumber, err)
	}

	attemptID := uuid.NewString()
	if err := s.claim(ctx, doc, attemptID); err != nil {
		return nil, err
	}

	if err := s.creds.RecordUsage(ctx, cred.Service); err != nil {
		log.Printf("⚠️ Failed to record credential usage for %s: %v", cred.Service, err)
	}

	log.Printf("📤 Sending %s to %s (%d bytes)", doc.RefNumber, cred.Endpoint, len(payload))
	start := s.now()
	resp, callErr := s.caller.Call(ctx, cred.Endpoint, s.action, envelope)

	out := Outcome{
		DocumentID:     doc.ID,
		RefNumber:      doc.RefNumber,
		AttemptID:      attemptID,
		PayloadSize:    len(payload),
		AttemptedAt:    start.UTC(),
		ResponseTimeMs: s.now().Sub(start).Milliseconds(),
	}
	if resp != nil {
		out.Response = string(resp.Body)
		out.HTTPStatus = resp.StatusCode
		out.ResponseTimeMs = resp.Duration.Milliseconds()
	}
	if callErr == nil {
		out.Success = true
		out.State = models.StateSent
	} else {
		out.State = models.StateError
		out.Error = callErr.Error()
	}

	if err := s.record(ctx, doc, &out, string(payload), actor); err != nil {
		return nil, err
	}

	if out.Success {
		log.Printf("✅ %s accepted by Beacukai in %dms", doc.RefNumber, out.ResponseTimeMs)
	} else {
		log.Printf("❌ %s transmission failed: %s", doc.RefNumber, out.Error)
	}

	if s.notifier != nil {
		s.notifier.NotifyOutcome(out)
	}
	return &out, nil
}

// claim marks the document as being transmitted by attemptID. Only one
// attempt at a time may reach the authority; a claim older than the TTL
// belongs to an attempt that never finished and is taken over.
func (s *Service) claim(ctx context.Context, doc *models.Document, attemptID string) error {
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND (cocotangki_status IS NULL OR cocotangki_status <> ?)", doc.ID, models.StateSent.String()).
		Where("cocotangki_attempt_id IS NULL OR cocotangki_claimed_at < ?", now.Add(-s.claimTTL)).
		Updates(map[string]interface{}{
			"cocotangki_attempt_id": attemptID,
			"cocotangki_claimed_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to claim %s: %w", doc.RefNumber, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current models.Document
	if err := s.db.WithContext(ctx).Select("id", "cocotangki_status").First(&current, doc.ID).Error; err != nil {
		return fmt.Errorf("failed to claim %s: %w", doc.RefNumber, err)
	}
	if current.CocotangkiStatus == models.StateSent {
		return ErrAlreadySent
	}
	log.Printf("⏳ %s is already being transmitted, attempt %s not started", doc.RefNumber, attemptID)
	return ErrInFlight
}

// release drops the claim of attemptID if it still holds it
func (s *Service) release(tx *gorm.DB, docID uint, attemptID string) error {
	return tx.Model(&models.Document{}).
		Where("id = ? AND cocotangki_attempt_id = ?", docID, attemptID).
		Updates(map[string]interface{}{
			"cocotangki_attempt_id": nil,
			"cocotangki_claimed_at": nil,
		}).Error
}

// record appends the attempt log row, applies the projection update and
// releases the claim in one transaction. Every attempt that reached the
// network gets its row.
func (s *Service) record(ctx context.Context, doc *models.Document, out *Outcome, request, actor string) error {
	updates := map[string]interface{}{
		"cocotangki_status":   out.State,
		"cocotangki_response": out.Response,
		"updated_by":          actor,
	}
	outcome := models.TransmissionFailed
	if out.Success {
		outcome = models.TransmissionSuccess
		updates["cocotangki_sent_at"] = out.AttemptedAt
		updates["cocotangki_error"] = ""
	} else {
		updates["cocotangki_error"] = out.Error
	}

	entry := models.TransmissionLog{
		AttemptID:       out.AttemptID,
		DocumentID:      doc.ID,
		RefNumber:       doc.RefNumber,
		Format:          FormatCocotangki,
		Outcome:         outcome,
		RequestPayload:  request,
		ResponsePayload: out.Response,
		HTTPStatus:      out.HTTPStatus,
		ResponseTimeMs:  out.ResponseTimeMs,
		PayloadSize:     out.PayloadSize,
		Actor:           actor,
		ErrorMessage:    out.Error,
	}

	// The attempt happened; record it even if the caller has gone away
	db := s.db.WithContext(context.WithoutCancel(ctx))
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		// sent stays terminal even if a taken-over claim finished first
		res := tx.Model(&models.Document{}).
			Where("id = ? AND (cocotangki_status IS NULL OR cocotangki_status <> ?)", doc.ID, models.StateSent.String()).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("⚠️ %s was already sent; attempt %s logged without changing its state", doc.RefNumber, out.AttemptID)
		}
		return s.release(tx, doc.ID, out.AttemptID)
	})
	if err != nil {
		if relErr := s.release(db, doc.ID, out.AttemptID); relErr != nil {
			log.Printf("⚠️ Failed to release claim of %s: %v", doc.RefNumber, relErr)
		}
		return fmt.Errorf("failed to record transmission of %s: %w", doc.RefNumber, err)
	}
	return nil
}

// SendBulk sends every document independently. A failure of one document
// never stops or alters the others. Outcomes keep the input order.
func (s *Service) SendBulk(ctx context.Context, ids []uint, actor string) BulkResult {
	ids = uniqueIDs(ids)
	result := BulkResult{Outcomes: make([]Outcome, len(ids))}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			out, err := s.Send(ctx, id, actor)
			if err != nil {
				result.Outcomes[i] = s.rejected(ctx, id, err)
				return nil
			}
			result.Outcomes[i] = *out
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range result.Outcomes {
		if o.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	log.Printf("📦 Bulk CoCoTangki send: %d succeeded, %d failed", result.Succeeded, result.Failed)
	return result
}

// rejected builds the outcome of a document that never reached the network
func (s *Service) rejected(ctx context.Context, id uint, err error) Outcome {
	out := Outcome{
		DocumentID:  id,
		Error:       err.Error(),
		AttemptedAt: s.now().UTC(),
	}
	var doc models.Document
	if e := s.db.WithContext(ctx).Select("id", "ref_number", "cocotangki_status").First(&doc, id).Error; e == nil {
		out.RefNumber = doc.RefNumber
		out.State = doc.CocotangkiStatus
	}
	return out
}

// uniqueIDs drops repeated ids, keeping the first occurrence
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) < len(ids) {
		log.Printf("⚠️ Bulk send: %d repeated document ids ignored", len(ids)-len(out))
	}
	return out
}
