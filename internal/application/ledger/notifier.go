package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
	"github.com/jhoicas/payloop-api/pkg/money"
)

// Notifier compone los SMS de una liquidación. No hay transporte real: el mensaje se registra
// en el log y queda con estado Sent.
type Notifier struct {
	brand    string
	currency string
	format   *money.Formatter
	log      *logger.Logger
}

// NewNotifier construye el emisor con la marca y el símbolo de moneda configurados.
func NewNotifier(cfg config.NotificationConfig, log *logger.Logger) *Notifier {
	if cfg.BrandName == "" {
		cfg.BrandName = "PayLoop"
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "₹"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Notifier{
		brand:    cfg.BrandName,
		currency: cfg.CurrencySymbol,
		format:   money.NewFormatter("en"),
		log:      log,
	}
}

// Compose arma el mensaje de bienvenida (cliente nuevo) o de recibo (compra repetida)
// a partir del estado ya actualizado del cliente.
func (n *Notifier) Compose(c *entity.Customer, res *loyalty.Result, now time.Time) entity.NotificationLog {
	var msg string
	if res.NewCustomer {
		msg = fmt.Sprintf("Welcome to %s, %s! You've earned your first %s points.",
			n.brand, c.Name, n.format.Points(c.Points))
	} else {
		msg = fmt.Sprintf("Hi %s, thank you for your purchase of %s%s. Your new points balance is %s.",
			c.Name, n.currency, n.format.Amount(res.FinalBill), n.format.Points(c.Points))
	}

	entry := entity.NotificationLog{
		ID:              uuid.NewString(),
		Date:            now,
		RecipientName:   c.Name,
		RecipientMobile: c.Mobile,
		Message:         msg,
		Status:          entity.NotificationSent,
	}
	n.log.Info().
		Str("to", c.Mobile).
		Str("message", msg).
		Msg("SMS simulado")
	return entry
}
