// Package ledger es el servicio dueño del estado del programa de fidelización: clientes,
// configuración de niveles y log de notificaciones. Toda mutación pasa por Settle o UpdateSettings,
// que calculan el nuevo estado, lo instalan en memoria y lo confirman en el almacenamiento
// en una sola transacción.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

// SettlementInput venta recibida desde la caja.
type SettlementInput struct {
	Mobile         string
	Name           string // obligatorio solo para clientes nuevos
	PIN            string
	BillAmount     decimal.Decimal
	AmountTendered decimal.Decimal
	RedeemPoints   bool
}

// SettlementOutcome resultado de una liquidación aceptada.
// Persisted=false indica que el estado quedó en memoria pero el commit falló; un Flush posterior lo reintenta.
type SettlementOutcome struct {
	Result       *loyalty.Result
	Customer     *entity.Customer
	Entry        entity.HistoryEntry
	Notification entity.NotificationLog
	Version      uint64
	Persisted    bool
	PersistError string
}

// SettingsOutcome resultado de un cambio de configuración aceptado.
type SettingsOutcome struct {
	Version      uint64
	Persisted    bool
	PersistError string
}

// GlobalEntry movimiento del historial junto con el cliente al que pertenece.
type GlobalEntry struct {
	Mobile string
	Name   string
	entity.HistoryEntry
}

// Service ledger en memoria versionado. Un único mutex serializa lectura-cálculo-commit.
type Service struct {
	mu  sync.Mutex
	tx  TxRunner
	ntf *Notifier
	log *logger.Logger
	now func() time.Time

	customers     map[string]*entity.Customer
	order         []string
	settings      entity.Settings
	notifications []entity.NotificationLog
	version       uint64
	dirty         bool
	pendingAudit  []*entity.SettlementAudit
	// asientos que el almacenamiento rechazó; no se reintentan.
	quarantined []*entity.SettlementAudit
}

// NewService construye el servicio. Load debe llamarse antes de operar.
func NewService(tx TxRunner, ntf *Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		tx:        tx,
		ntf:       ntf,
		log:       log.Named("ledger"),
		now:       func() time.Time { return time.Now().UTC() },
		customers: map[string]*entity.Customer{},
		settings:  entity.DefaultSettings(),
	}
}

// Load lee los blobs del almacenamiento. Si no hay clientes guardados siembra el conjunto de demostración.
// Si falta la configuración usa la de fábrica. Los niveles se recalculan contra la configuración cargada.
func (s *Service) Load(ctx context.Context) error {
	var rawCustomers, rawSettings, rawLogs []byte
	err := s.tx.RunLedger(ctx, func(blobs repository.BlobRepository, _ repository.AuditRepository) error {
		var err error
		if rawCustomers, err = blobs.Get(ctx, repository.KeyCustomers); err != nil {
			return err
		}
		if rawSettings, err = blobs.Get(ctx, repository.KeySettings); err != nil {
			return err
		}
		rawLogs, err = blobs.Get(ctx, repository.KeyNotifications)
		return err
	})
	if err != nil {
		return fmt.Errorf("ledger: load: %w", err)
	}

	settings := entity.DefaultSettings()
	if rawSettings != nil {
		if settings, err = decodeSettings(rawSettings); err != nil {
			return err
		}
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("ledger: configuración guardada inválida: %w", err)
		}
	}

	seeded := rawCustomers == nil
	var list []*entity.Customer
	if seeded {
		list = DemoCustomers(settings)
	} else if list, err = decodeCustomers(rawCustomers); err != nil {
		return err
	}

	var logs []entity.NotificationLog
	if rawLogs != nil && !seeded {
		if logs, err = decodeNotifications(rawLogs); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(list, settings, logs)
	s.log.Info().Int("customers", len(s.order)).Bool("seeded", seeded).Msg("ledger cargado")

	if seeded {
		s.version++
		s.commitLocked(ctx, nil)
	}
	return nil
}

// install reemplaza el estado completo; los niveles se derivan de nuevo.
func (s *Service) install(list []*entity.Customer, settings entity.Settings, logs []entity.NotificationLog) {
	s.customers = make(map[string]*entity.Customer, len(list))
	s.order = s.order[:0]
	for _, c := range list {
		if _, dup := s.customers[c.Mobile]; dup {
			s.log.Warn().Str("mobile", c.Mobile).Msg("cliente duplicado ignorado")
			continue
		}
		loyalty.Reclassify(c, settings)
		s.customers[c.Mobile] = c
		s.order = append(s.order, c.Mobile)
	}
	s.settings = settings
	if logs == nil {
		logs = []entity.NotificationLog{}
	}
	s.notifications = logs
}

// VerifyPIN indica si el móvil ya es cliente. Para clientes existentes valida el PIN (ErrPinMismatch).
func (s *Service) VerifyPIN(mobile, pin string) (exists bool, err error) {
	if err := validateMobile(mobile); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[mobile]
	if !ok {
		return false, nil
	}
	if c.PIN != pin {
		return true, domain.ErrPinMismatch
	}
	return true, nil
}

// Quote calcula la liquidación sin aplicarla (vista previa de la factura).
func (s *Service) Quote(in SettlementInput) (*loyalty.Result, error) {
	if err := validateMobile(in.Mobile); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.lookupForSettlement(in)
	if err != nil {
		return nil, err
	}
	return loyalty.Settle(prev, toRequest(in), s.settings)
}

// Settle liquida una venta: calcula, aplica al cliente, emite la notificación y confirma el nuevo estado.
// Los rechazos (PIN, monto insuficiente, entrada inválida) no modifican nada.
func (s *Service) Settle(ctx context.Context, in SettlementInput) (*SettlementOutcome, error) {
	if err := validateMobile(in.Mobile); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.lookupForSettlement(in)
	if err != nil {
		return nil, err
	}
	res, err := loyalty.Settle(prev, toRequest(in), s.settings)
	if err != nil {
		s.log.Warn().Err(err).Str("mobile", in.Mobile).Msg("liquidación rechazada")
		return nil, err
	}

	now := s.now()
	identity := loyalty.Identity{Mobile: in.Mobile, Name: strings.TrimSpace(in.Name), PIN: in.PIN}
	next, entry := loyalty.Apply(prev, identity, res, s.settings, uuid.NewString(), now)
	note := s.ntf.Compose(next, res, now)

	s.version++
	if prev == nil {
		s.order = append(s.order, next.Mobile)
	}
	s.customers[next.Mobile] = next
	s.notifications = append([]entity.NotificationLog{note}, s.notifications...)

	audit := &entity.SettlementAudit{
		ID:              uuid.NewString(),
		Mobile:          next.Mobile,
		NewCustomer:     res.NewCustomer,
		BillAmount:      in.BillAmount,
		AmountTendered:  in.AmountTendered,
		RedeemPoints:    in.RedeemPoints,
		EffectiveTier:   res.EffectiveTier,
		DiscountPercent: res.DiscountPercent,
		TierDiscount:    res.TierDiscountAmount,
		PointsRedeemed:  res.PointsRedemptionAmount,
		FinalBill:       res.FinalBill,
		NetPoints:       res.NetPointsChange,
		PointsAfter:     next.Points,
		LedgerVersion:   s.version,
		CreatedAt:       now,
	}

	out := &SettlementOutcome{
		Result:       res,
		Customer:     next.Clone(),
		Entry:        entry,
		Notification: note,
		Version:      s.version,
	}
	if err := s.commitLocked(ctx, audit); err != nil {
		out.PersistError = err.Error()
	} else {
		out.Persisted = true
	}

	s.log.Info().
		Str("mobile", next.Mobile).
		Str("final_bill", res.FinalBill.String()).
		Int64("net_points", res.NetPointsChange).
		Uint64("version", s.version).
		Bool("persisted", out.Persisted).
		Msg("liquidación aplicada")
	return out, nil
}

// lookupForSettlement devuelve el cliente previo (nil si es nuevo) validando PIN o datos de alta.
func (s *Service) lookupForSettlement(in SettlementInput) (*entity.Customer, error) {
	prev, ok := s.customers[in.Mobile]
	if ok {
		if prev.PIN != in.PIN {
			return nil, domain.ErrPinMismatch
		}
		return prev, nil
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio para cliente nuevo", domain.ErrInvalidInput)
	}
	if !isDigits(in.PIN) || len(in.PIN) != 4 {
		return nil, fmt.Errorf("%w: el PIN debe tener 4 dígitos", domain.ErrInvalidInput)
	}
	return nil, nil
}

// commitLocked escribe los tres blobs y los asientos de auditoría pendientes en una transacción.
// Un asiento rechazado por el almacenamiento pasa a cuarentena y el commit se repite sin él.
// Cualquier otro fallo deja el ledger marcado como sucio; el estado en memoria no se revierte.
func (s *Service) commitLocked(ctx context.Context, audit *entity.SettlementAudit) error {
	if audit != nil {
		s.pendingAudit = append(s.pendingAudit, audit)
	}
	customers, err := encodeCustomers(s.snapshotLocked())
	if err != nil {
		return s.markDirty(err)
	}
	settings, err := encodeSettings(s.settings)
	if err != nil {
		return s.markDirty(err)
	}
	logs, err := encodeNotifications(s.notifications)
	if err != nil {
		return s.markDirty(err)
	}

	for {
		err = s.runCommit(ctx, customers, settings, logs, s.pendingAudit)
		if err == nil {
			break
		}
		if !s.quarantineRejected(err) {
			return s.markDirty(err)
		}
	}
	s.pendingAudit = nil
	s.dirty = false
	return nil
}

func (s *Service) runCommit(ctx context.Context, customers, settings, logs []byte, pending []*entity.SettlementAudit) error {
	return s.tx.RunLedger(ctx, func(blobs repository.BlobRepository, auditRepo repository.AuditRepository) error {
		if err := blobs.Put(ctx, repository.KeyCustomers, customers); err != nil {
			return err
		}
		if err := blobs.Put(ctx, repository.KeySettings, settings); err != nil {
			return err
		}
		if err := blobs.Put(ctx, repository.KeyNotifications, logs); err != nil {
			return err
		}
		for _, rec := range pending {
			if err := auditRepo.Append(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// quarantineRejected saca de la cola el asiento que el almacenamiento rechazó para que el
// resto del estado pueda confirmarse. Devuelve false si el error no identifica un asiento pendiente.
func (s *Service) quarantineRejected(err error) bool {
	var rejected *domain.AuditRejectedError
	if !errors.As(err, &rejected) {
		return false
	}
	for i, rec := range s.pendingAudit {
		if rec.ID != rejected.ID {
			continue
		}
		s.pendingAudit = append(s.pendingAudit[:i:i], s.pendingAudit[i+1:]...)
		s.quarantined = append(s.quarantined, rec)
		s.log.Error().Err(err).Str("audit_id", rec.ID).Str("mobile", rec.Mobile).Msg("asiento de auditoría en cuarentena")
		return true
	}
	return false
}

// QuarantinedAudits copia de los asientos rechazados por el almacenamiento desde la carga.
func (s *Service) QuarantinedAudits() []*entity.SettlementAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.SettlementAudit, len(s.quarantined))
	for i, rec := range s.quarantined {
		cp := *rec
		out[i] = &cp
	}
	return out
}

func (s *Service) markDirty(err error) error {
	s.dirty = true
	s.log.Error().Err(err).Uint64("version", s.version).Msg("no se pudo persistir el ledger")
	return fmt.Errorf("ledger: commit: %w", err)
}

// Flush reintenta el commit si el último falló. Sin cambios pendientes no hace nada.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := s.commitLocked(ctx, nil); err != nil {
		return err
	}
	s.log.Info().Uint64("version", s.version).Msg("ledger sincronizado")
	return nil
}

// Dirty indica si hay estado en memoria sin persistir.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Version número de mutaciones aplicadas desde la carga.
func (s *Service) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Settings devuelve la configuración vigente.
func (s *Service) Settings() entity.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings valida y reemplaza la configuración, recalcula ambos niveles de todos los clientes
// (el historial no se reescribe) y confirma el estado.
func (s *Service) UpdateSettings(ctx context.Context, settings entity.Settings) (*SettingsOutcome, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mobile := range s.order {
		c := s.customers[mobile].Clone()
		loyalty.Reclassify(c, settings)
		s.customers[mobile] = c
	}
	s.settings = settings
	s.version++
	s.log.Info().Uint64("version", s.version).Msg("configuración de niveles actualizada")
	out := &SettingsOutcome{Version: s.version}
	if err := s.commitLocked(ctx, nil); err != nil {
		out.PersistError = err.Error()
	} else {
		out.Persisted = true
	}
	return out, nil
}

// ResetDemo reemplaza el estado por el conjunto de demostración con la configuración de fábrica.
func (s *Service) ResetDemo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := entity.DefaultSettings()
	s.install(DemoCustomers(settings), settings, nil)
	s.version++
	s.log.Warn().Msg("ledger reiniciado con datos de demostración")
	return s.commitLocked(ctx, nil)
}

// Customer instantánea de un cliente por móvil.
func (s *Service) Customer(mobile string) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[mobile]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

// Customers instantáneas de todos los clientes en orden de alta.
func (s *Service) Customers() []*entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Search clientes cuyo móvil contiene q (todos si q está vacío).
func (s *Service) Search(q string) []*entity.Customer {
	q = strings.TrimSpace(q)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Customer, 0)
	for _, mobile := range s.order {
		if q == "" || strings.Contains(mobile, q) {
			out = append(out, s.customers[mobile].Clone())
		}
	}
	return out
}

// History todos los movimientos de todos los clientes, más reciente primero.
func (s *Service) History() []GlobalEntry {
	s.mu.Lock()
	out := make([]GlobalEntry, 0)
	for _, mobile := range s.order {
		c := s.customers[mobile]
		for _, h := range c.History {
			out = append(out, GlobalEntry{Mobile: c.Mobile, Name: c.Name, HistoryEntry: h})
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Notifications log de SMS, más reciente primero.
func (s *Service) Notifications() []entity.NotificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.NotificationLog, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *Service) snapshotLocked() []*entity.Customer {
	out := make([]*entity.Customer, 0, len(s.order))
	for _, mobile := range s.order {
		out = append(out, s.customers[mobile].Clone())
	}
	return out
}

func toRequest(in SettlementInput) loyalty.Request {
	return loyalty.Request{
		BillAmount:     in.BillAmount,
		AmountTendered: in.AmountTendered,
		RedeemPoints:   in.RedeemPoints,
	}
}

func validateMobile(mobile string) error {
	if len(mobile) < 10 || !isDigits(mobile) {
		return fmt.Errorf("%w: el móvil debe tener al menos 10 dígitos", domain.ErrInvalidInput)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Audits asientos del diario de auditoría de un cliente, más reciente primero.
func (s *Service) Audits(ctx context.Context, mobile string, limit int) ([]*entity.SettlementAudit, error) {
	if err := validateMobile(mobile); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxAuditPage {
		limit = maxAuditPage
	}
	var out []*entity.SettlementAudit
	err := s.tx.RunLedger(ctx, func(_ repository.BlobRepository, audit repository.AuditRepository) error {
		var err error
		out, err = audit.ListByMobile(ctx, mobile, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar auditoría: %w", err)
	}
	return out, nil
}

const maxAuditPage = 100
