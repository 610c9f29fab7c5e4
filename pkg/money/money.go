// Package money formatea importes y saldos para textos dirigidos al cliente.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter agrupa miles y limita decimales según el idioma configurado.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter crea un formatter para el tag de idioma dado (en si es vacío o inválido).
func NewFormatter(tag string) *Formatter {
	lang, err := language.Parse(tag)
	if err != nil || tag == "" {
		lang = language.English
	}
	return &Formatter{printer: message.NewPrinter(lang)}
}

// Amount formatea un importe con separador de miles y hasta dos decimales: 13750 -> "13,750".
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Points formatea un saldo entero de puntos: 7500 -> "7,500".
func (f *Formatter) Points(p int64) string {
	return f.printer.Sprint(number.Decimal(p))
}
