package dto

import (
	"github.com/shopspring/decimal"

	"github.com/scafi/integration-backend/internal/domain/relay"
)

// PartyRequest is the inbound payload for a counterparty submission.
// Field names follow the Zucchetti export format.
type PartyRequest struct {
	Codice               string `json:"codice" binding:"required"`
	Tipo                 string `json:"tipo" binding:"required"`
	TipoSoggetto         string `json:"tipoSoggetto" binding:"required"`
	Anagrafica           string `json:"anagrafica" binding:"required"`
	PartitaIVA           string `json:"partitaIva" binding:"omitempty,partita_iva"`
	CodiceFiscale        string `json:"codiceFiscale"`
	Indirizzo            string `json:"indirizzo"`
	NumeroCivico         string `json:"numeroCivico"`
	CAP                  string `json:"cap"`
	Citta                string `json:"citta"`
	Provincia            string `json:"provincia"`
	Nazione              string `json:"nazione"`
	CodiceIVA            string `json:"codiceIva"`
	IBAN                 string `json:"iban"`
	CodiceBanca          string `json:"codiceBanca"`
	PayeeNumber          string `json:"payeeNumber"`
	DatiAudit            string `json:"datiAudit"`
	DichiarazioneIntento string `json:"dichiarazioneIntento"`
	CodicePA             string `json:"codicePA"`
	PaymentTerms         string `json:"paymentTerms"`
	PaymentMethod        string `json:"paymentMethod"`
	CodicePrincipale     string `json:"codiceprincipale"`
	ZucchettiNumber      string `json:"zucchettiNumber" binding:"required"`
}

// ToDomain maps the request onto the immutable domain record.
func (r *PartyRequest) ToDomain() *relay.PartyRecord {
	return &relay.PartyRecord{
		Codice:               r.Codice,
		Tipo:                 r.Tipo,
		TipoSoggetto:         r.TipoSoggetto,
		Anagrafica:           r.Anagrafica,
		PartitaIVA:           r.PartitaIVA,
		CodiceFiscale:        r.CodiceFiscale,
		Indirizzo:            r.Indirizzo,
		NumeroCivico:         r.NumeroCivico,
		CAP:                  r.CAP,
		Citta:                r.Citta,
		Provincia:            r.Provincia,
		Nazione:              r.Nazione,
		CodiceIVA:            r.CodiceIVA,
		IBAN:                 r.IBAN,
		CodiceBanca:          r.CodiceBanca,
		PayeeNumber:          r.PayeeNumber,
		DatiAudit:            r.DatiAudit,
		DichiarazioneIntento: r.DichiarazioneIntento,
		CodicePA:             r.CodicePA,
		PaymentTerms:         r.PaymentTerms,
		PaymentMethod:        r.PaymentMethod,
		CodicePrincipale:     r.CodicePrincipale,
		ZucchettiNumber:      r.ZucchettiNumber,
	}
}

// LedgerEntryRequest is one customer-ledger line of an invoice payload.
type LedgerEntryRequest struct {
	GLDate         string          `json:"glDate"`
	Account        string          `json:"account"`
	SubledgerCod   string          `json:"subledgerCod"`
	SubledgerType  string          `json:"subledgerType"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyAmount decimal.Decimal `json:"currencyAmount"`
	Description    string          `json:"description"`
}

// InvoiceLineRequest is one detail line of an invoice payload.
type InvoiceLineRequest struct {
	LineNumber  int             `json:"lineNumber"`
	ItemCode    string          `json:"itemCode"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	VATCode     string          `json:"vatCode"`
}

// InvoiceRequest is the inbound payload for an invoice submission.
type InvoiceRequest struct {
	CustomID         int                  `json:"CustomId" binding:"required"`
	CustomExported   bool                 `json:"CustomExported"`
	DocumentType     string               `json:"DocumentType" binding:"required"`
	DocumentNumber   string               `json:"DocumentNumber" binding:"required"`
	DocumentCompany  string               `json:"DocumentCompany" binding:"required"`
	Customer         string               `json:"Customer" binding:"required"`
	Company          string               `json:"Company" binding:"required"`
	InvoiceDate      string               `json:"InvoiceDate" binding:"required"`
	RegistrationDate string               `json:"RegistrationDate"`
	CurrencyCode     string               `json:"CurrencyCode"`
	ExchangeRate     decimal.Decimal      `json:"ExchangeRate"`
	SubledgerCod     string               `json:"SubledgerCod"`
	SubledgerType    string               `json:"SubledgerType"`
	CustomerLedger   []LedgerEntryRequest `json:"CustomerLedger"`
	InvoiceDetails   []InvoiceLineRequest `json:"InvoiceDetails"`
	PymtTerms        string               `json:"PymtTerms"`
	Attachment       string               `json:"Attachment"`
}

// ToDomain maps the request onto the immutable domain document.
func (r *InvoiceRequest) ToDomain() *relay.Invoice {
	ledger := make([]relay.LedgerEntry, 0, len(r.CustomerLedger))
	for _, l := range r.CustomerLedger {
		ledger = append(ledger, relay.LedgerEntry{
			GLDate:         l.GLDate,
			Account:        l.Account,
			SubledgerCod:   l.SubledgerCod,
			SubledgerType:  l.SubledgerType,
			Amount:         l.Amount,
			CurrencyAmount: l.CurrencyAmount,
			Description:    l.Description,
		})
	}

	details := make([]relay.InvoiceLine, 0, len(r.InvoiceDetails))
	for _, d := range r.InvoiceDetails {
		details = append(details, relay.InvoiceLine{
			LineNumber:  d.LineNumber,
			ItemCode:    d.ItemCode,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Amount:      d.Amount,
			VATCode:     d.VATCode,
		})
	}

	return &relay.Invoice{
		CustomID:         r.CustomID,
		CustomExported:   r.CustomExported,
		DocumentType:     r.DocumentType,
		DocumentNumber:   r.DocumentNumber,
		DocumentCompany:  r.DocumentCompany,
		Customer:         r.Customer,
		Company:          r.Company,
		InvoiceDate:      r.InvoiceDate,
		RegistrationDate: r.RegistrationDate,
		CurrencyCode:     r.CurrencyCode,
		ExchangeRate:     r.ExchangeRate,
		SubledgerCod:     r.SubledgerCod,
		SubledgerType:    r.SubledgerType,
		CustomerLedger:   ledger,
		InvoiceDetails:   details,
		PymtTerms:        r.PymtTerms,
		Attachment:       r.Attachment,
	}
}
