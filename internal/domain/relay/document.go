package relay

import "github.com/shopspring/decimal"

// DocumentType identifies which business document a submission carries.
type DocumentType string

const (
	// DocumentTypeParty is a counterparty master-data record ("anagrafica").
	DocumentTypeParty DocumentType = "ANAGRAFICA"
	// DocumentTypeInvoice is a billing document ("fattura").
	DocumentTypeInvoice DocumentType = "FATTURA"
)

// PartyRecord carries the full counterparty master-data field set expected by
// JDE. It is built once from the inbound request and never mutated afterwards.
type PartyRecord struct {
	Codice               string `json:"codice"`
	Tipo                 string `json:"tipo"`
	TipoSoggetto         string `json:"tipoSoggetto"`
	Anagrafica           string `json:"anagrafica"`
	PartitaIVA           string `json:"partitaIva,omitempty"`
	CodiceFiscale        string `json:"codiceFiscale,omitempty"`
	Indirizzo            string `json:"indirizzo,omitempty"`
	NumeroCivico         string `json:"numeroCivico,omitempty"`
	CAP                  string `json:"cap,omitempty"`
	Citta                string `json:"citta,omitempty"`
	Provincia            string `json:"provincia,omitempty"`
	Nazione              string `json:"nazione,omitempty"`
	CodiceIVA            string `json:"codiceIva,omitempty"`
	IBAN                 string `json:"iban,omitempty"`
	CodiceBanca          string `json:"codiceBanca,omitempty"`
	PayeeNumber          string `json:"payeeNumber,omitempty"`
	DatiAudit            string `json:"datiAudit,omitempty"`
	DichiarazioneIntento string `json:"dichiarazioneIntento,omitempty"`
	CodicePA             string `json:"codicePA,omitempty"`
	PaymentTerms         string `json:"paymentTerms,omitempty"`
	PaymentMethod        string `json:"paymentMethod,omitempty"`
	CodicePrincipale     string `json:"codiceprincipale,omitempty"`
	ZucchettiNumber      string `json:"zucchettiNumber"`
}

// LedgerEntry is one customer-ledger line of an invoice.
type LedgerEntry struct {
	GLDate         string          `json:"glDate,omitempty"`
	Account        string          `json:"account,omitempty"`
	SubledgerCod   string          `json:"subledgerCod,omitempty"`
	SubledgerType  string          `json:"subledgerType,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyAmount decimal.Decimal `json:"currencyAmount"`
	Description    string          `json:"description,omitempty"`
}

// InvoiceLine is one detail line of an invoice.
type InvoiceLine struct {
	LineNumber  int             `json:"lineNumber"`
	ItemCode    string          `json:"itemCode,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	VATCode     string          `json:"vatCode,omitempty"`
}

// Invoice carries the invoice header and its line detail as submitted to JDE.
// Immutable once constructed; owned by a single workflow invocation.
type Invoice struct {
	CustomID         int             `json:"CustomId"`
	CustomExported   bool            `json:"CustomExported,omitempty"`
	DocumentType     string          `json:"DocumentType"`
	DocumentNumber   string          `json:"DocumentNumber"`
	DocumentCompany  string          `json:"DocumentCompany"`
	Customer         string          `json:"Customer"`
	Company          string          `json:"Company"`
	InvoiceDate      string          `json:"InvoiceDate"`
	RegistrationDate string          `json:"RegistrationDate"`
	CurrencyCode     string          `json:"CurrencyCode"`
	ExchangeRate     decimal.Decimal `json:"ExchangeRate"`
	SubledgerCod     string          `json:"SubledgerCod,omitempty"`
	SubledgerType    string          `json:"SubledgerType,omitempty"`
	CustomerLedger   []LedgerEntry   `json:"CustomerLedger"`
	InvoiceDetails   []InvoiceLine   `json:"InvoiceDetails"`
	PymtTerms        string          `json:"PymtTerms"`
	Attachment       string          `json:"Attachment,omitempty"`
}
